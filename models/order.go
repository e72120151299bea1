package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of a canteen order
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// TerminalStatuses are excluded from a shop's active queue
var TerminalStatuses = []OrderStatus{StatusCompleted, StatusCancelled}

// QueueDayLayout formats the calendar day a queue number belongs to
const QueueDayLayout = "2006-01-02"

type Order struct {
	ID                 uint                 `json:"id" gorm:"primaryKey"`
	CustomerID         uint                 `json:"customer_id" gorm:"not null;index"`
	Customer           User                 `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ShopID             uint                 `json:"shop_id" gorm:"not null;index;uniqueIndex:idx_shop_day_queue,priority:1"`
	Shop               Shop                 `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
	Status             OrderStatus          `json:"status" gorm:"not null;default:'PENDING';index"`
	TotalAmount        decimal.Decimal      `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	QueueDay           string               `json:"queue_day" gorm:"not null;size:10;uniqueIndex:idx_shop_day_queue,priority:2"`
	QueueNumber        int                  `json:"queue_number" gorm:"not null;uniqueIndex:idx_shop_day_queue,priority:3"`
	OrderDateTime      time.Time            `json:"order_date_time" gorm:"not null;index"`
	Notes              string               `json:"notes" gorm:"size:500"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
	CancellationReason string               `json:"cancellation_reason,omitempty"`
	Items              []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory      []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// ItemsTotal sums the item subtotals
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}

type OrderItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderID         uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID      uint            `json:"menu_item_id" gorm:"not null"`
	ItemName        string          `json:"item_name"` // snapshot name
	Quantity        int             `json:"quantity" gorm:"not null"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusHistory tracks every status change of an order
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ShopQueueCounter holds the last queue number handed out by a shop on a day
type ShopQueueCounter struct {
	ShopID     uint   `gorm:"primaryKey;autoIncrement:false"`
	Day        string `gorm:"primaryKey;size:10"`
	LastNumber int    `gorm:"not null"`
}
