package models

import "time"

type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Message   string    `json:"message" gorm:"not null;size:500"`
	IsRead    bool      `json:"is_read" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&Shop{},
		&MenuItem{},
		&MenuItemVariant{},
		&MenuItemAddon{},
		&MenuItemFlavor{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
		&ShopQueueCounter{},
		&Notification{},
	}
}
