package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"online-canteen-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	UpdateStatusGuard(ctx context.Context, id uint, from, to models.OrderStatus) (int64, error)
	Cancel(ctx context.Context, id uint, from models.OrderStatus, at time.Time, reason string) (int64, error)
	AddHistory(ctx context.Context, h *models.OrderStatusHistory) error
	CompletedTotals(ctx context.Context, shopID uint, start, end time.Time) ([]decimal.Decimal, error)

	// NextQueueNumber reserves the next ticket for shop on day. It must run
	// inside a transaction; the counter row update holds the write lock until commit.
	NextQueueNumber(ctx context.Context, shopID uint, day string) (int, error)
	PurgeQueueCounters(ctx context.Context, beforeDay string) (int64, error)
}

type OrderFilter struct {
	CustomerID uint
	ShopID     uint
	Status     models.OrderStatus
	// ActiveOnly excludes terminal orders and sorts by queue number
	ActiveOnly bool
	From       *time.Time
	To         *time.Time
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order and its items in one statement batch
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Customer", "Shop").Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items")
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.ShopID != 0 {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("order_date_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("order_date_time <= ?", *filter.To)
	}
	if filter.ActiveOnly {
		query = query.Where("status NOT IN ?", models.TerminalStatuses).
			Order("queue_day asc").Order("queue_number asc")
	} else {
		query = query.Order("order_date_time desc").Order("id desc")
	}

	var orders []models.Order
	err := query.Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatusGuard(ctx context.Context, id uint, from, to models.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *orderRepository) Cancel(ctx context.Context, id uint, from models.OrderStatus, at time.Time, reason string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":              models.StatusCancelled,
			"cancelled_at":        at,
			"cancellation_reason": reason,
		})
	return res.RowsAffected, res.Error
}

func (r *orderRepository) AddHistory(ctx context.Context, h *models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *orderRepository) CompletedTotals(ctx context.Context, shopID uint, start, end time.Time) ([]decimal.Decimal, error) {
	var totals []decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("shop_id = ? AND status = ?", shopID, models.StatusCompleted).
		Where("order_date_time >= ? AND order_date_time <= ?", start, end).
		Pluck("total_amount", &totals).Error
	return totals, err
}

func (r *orderRepository) NextQueueNumber(ctx context.Context, shopID uint, day string) (int, error) {
	db := r.db.WithContext(ctx)

	// Seed a missing counter from orders already stored for the day
	var current int
	if err := db.Model(&models.Order{}).
		Where("shop_id = ? AND queue_day = ?", shopID, day).
		Select("COALESCE(MAX(queue_number), 0)").
		Scan(&current).Error; err != nil {
		return 0, fmt.Errorf("read max queue number: %w", err)
	}
	seed := models.ShopQueueCounter{ShopID: shopID, Day: day, LastNumber: current}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, fmt.Errorf("seed queue counter: %w", err)
	}

	res := db.Model(&models.ShopQueueCounter{}).
		Where("shop_id = ? AND day = ?", shopID, day).
		UpdateColumn("last_number", gorm.Expr("last_number + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("increment queue counter: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return 0, fmt.Errorf("queue counter for shop %d on %s not found", shopID, day)
	}

	var counter models.ShopQueueCounter
	if err := db.Where("shop_id = ? AND day = ?", shopID, day).First(&counter).Error; err != nil {
		return 0, fmt.Errorf("read queue counter: %w", err)
	}
	return counter.LastNumber, nil
}

func (r *orderRepository) PurgeQueueCounters(ctx context.Context, beforeDay string) (int64, error) {
	res := r.db.WithContext(ctx).Where("day < ?", beforeDay).Delete(&models.ShopQueueCounter{})
	return res.RowsAffected, res.Error
}
