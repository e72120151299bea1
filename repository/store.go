package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories over one connection or transaction
type Store struct {
	db            *gorm.DB
	Users         UserRepository
	Shops         ShopRepository
	Menu          MenuRepository
	Orders        OrderRepository
	Notifications NotificationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Shops:         NewShopRepository(db),
		Menu:          NewMenuRepository(db),
		Orders:        NewOrderRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single transaction.
// Returning an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
