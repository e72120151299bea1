package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"online-canteen-api/logger"
	"online-canteen-api/metrics"
	"online-canteen-api/models"
	"online-canteen-api/repository"
	"online-canteen-api/statemachine"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultCancelReason = "No reason provided"

type OrderService struct {
	store *repository.Store
	loc   *time.Location
	now   func() time.Time
	locks shopLocks
}

// NewOrderService uses loc for calendar-day boundaries of queue numbers
func NewOrderService(store *repository.Store, loc *time.Location) *OrderService {
	if loc == nil {
		loc = time.Local
	}
	return &OrderService{store: store, loc: loc, now: time.Now}
}

// WithClock replaces the time source
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// Location is the zone used for day boundaries
func (s *OrderService) Location() *time.Location {
	return s.loc
}

type OrderLine struct {
	MenuItemID uint
	Quantity   int
}

// CreateOrder validates the shop and every line, snapshots prices, assigns
// the shop's next queue number for today and stores the order with its items
// atomically.
func (s *OrderService) CreateOrder(ctx context.Context, customerID, shopID uint, lines []OrderLine, notes string) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrOrderNoItems
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	unlock := s.locks.lock(shopID)
	defer unlock()

	var order *models.Order
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		customer, err := tx.Users.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return ErrCustomerNotFound
		}
		shop, err := tx.Shops.GetByID(ctx, shopID)
		if err != nil {
			return err
		}
		if shop == nil {
			return ErrShopNotFound
		}
		if !shop.IsOperational() {
			return ErrShopNotOperational
		}

		items := make([]models.OrderItem, 0, len(lines))
		total := decimal.Zero
		for _, l := range lines {
			menuItem, err := tx.Menu.GetByID(ctx, l.MenuItemID)
			if err != nil {
				return err
			}
			if menuItem == nil {
				return ErrMenuItemNotFound
			}
			if menuItem.ShopID != shopID {
				return ErrItemWrongShop
			}
			if !menuItem.IsAvailable {
				return InvalidArgument("%s is currently not available", menuItem.Name)
			}
			item := models.OrderItem{
				MenuItemID:      menuItem.ID,
				ItemName:        menuItem.Name,
				Quantity:        l.Quantity,
				PriceAtPurchase: menuItem.Price,
			}
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}

		now := s.now().In(s.loc)
		day := QueueDay(now, s.loc)
		queue, err := tx.Orders.NextQueueNumber(ctx, shopID, day)
		if err != nil {
			return err
		}

		order = &models.Order{
			CustomerID:    customerID,
			ShopID:        shopID,
			Status:        models.StatusPending,
			TotalAmount:   total,
			QueueDay:      day,
			QueueNumber:   queue,
			OrderDateTime: now,
			Notes:         strings.TrimSpace(notes),
			Items:         items,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return tx.Orders.AddHistory(ctx, &models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: customerID,
			Note:      "Order placed by customer",
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.WithLabelValues(strconv.FormatUint(uint64(shopID), 10)).Inc()
	logger.FromContext(ctx).Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("shop_id", shopID),
		zap.Int("queue_number", order.QueueNumber),
		zap.String("total", order.TotalAmount.StringFixed(2)))
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.store.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateOrderStatus advances an order along the transition table. A move to
// CANCELLED goes through CancelOrder so the cancellation fields are set.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, to models.OrderStatus, actor statemachine.Actor, actorID uint) (*models.Order, error) {
	if !to.Valid() {
		return nil, InvalidArgument("Unknown order status %q", to)
	}
	if to == models.StatusCancelled {
		return s.CancelOrder(ctx, orderID, "", actor, actorID)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, InvalidState("Order is %s and can no longer change", order.Status)
	}
	if err := statemachine.CanTransition(order.Status, to, actor); err != nil {
		return nil, InvalidState("%s", err.Error())
	}

	from := order.Status
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		n, err := tx.Orders.UpdateStatusGuard(ctx, orderID, from, to)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		if n == 0 {
			return ErrStatusChanged
		}
		return tx.Orders.AddHistory(ctx, &models.OrderStatusHistory{
			OrderID:    orderID,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  actorID,
			Note:       fmt.Sprintf("Status updated by %s", actor),
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(to), string(actor)).Inc()
	logger.FromContext(ctx).Info("order status changed",
		zap.Uint("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actor", string(actor)))
	return s.GetOrder(ctx, orderID)
}

// CancelOrder fails with ErrOrderTerminal on COMPLETED or CANCELLED orders
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint, reason string, actor statemachine.Actor, actorID uint) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, ErrOrderTerminal
	}
	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, actor); err != nil {
		return nil, InvalidState("%s", err.Error())
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancelReason
	}

	from := order.Status
	at := s.now().In(s.loc)
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		n, err := tx.Orders.Cancel(ctx, orderID, from, at, reason)
		if err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}
		if n == 0 {
			return ErrStatusChanged
		}
		return tx.Orders.AddHistory(ctx, &models.OrderStatusHistory{
			OrderID:    orderID,
			FromStatus: from,
			ToStatus:   models.StatusCancelled,
			ChangedBy:  actorID,
			Note:       reason,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(models.StatusCancelled), string(actor)).Inc()
	logger.FromContext(ctx).Info("order cancelled",
		zap.Uint("order_id", orderID),
		zap.String("actor", string(actor)),
		zap.String("reason", reason))
	return s.GetOrder(ctx, orderID)
}

// GetByCustomer returns newest first
func (s *OrderService) GetByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	return s.store.Orders.List(ctx, repository.OrderFilter{CustomerID: customerID})
}

// GetByShop returns newest first, optionally narrowed to one status
func (s *OrderService) GetByShop(ctx context.Context, shopID uint, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, InvalidArgument("Unknown order status %q", status)
	}
	return s.store.Orders.List(ctx, repository.OrderFilter{ShopID: shopID, Status: status})
}

// GetActiveByShop returns non-terminal orders in queue order
func (s *OrderService) GetActiveByShop(ctx context.Context, shopID uint) ([]models.Order, error) {
	return s.store.Orders.List(ctx, repository.OrderFilter{ShopID: shopID, ActiveOnly: true})
}

func (s *OrderService) GetByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, InvalidArgument("Unknown order status %q", status)
	}
	return s.store.Orders.List(ctx, repository.OrderFilter{Status: status})
}

func (s *OrderService) GetByShopAndDateRange(ctx context.Context, shopID uint, start, end time.Time) ([]models.Order, error) {
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}
	return s.store.Orders.List(ctx, repository.OrderFilter{ShopID: shopID, From: &start, To: &end})
}

func (s *OrderService) IsOrderOwnedByCustomer(ctx context.Context, orderID, customerID uint) (bool, error) {
	order, err := s.store.Orders.GetByID(ctx, orderID)
	if err != nil || order == nil {
		return false, err
	}
	return order.CustomerID == customerID, nil
}

func (s *OrderService) IsOrderFromShop(ctx context.Context, orderID, shopID uint) (bool, error) {
	order, err := s.store.Orders.GetByID(ctx, orderID)
	if err != nil || order == nil {
		return false, err
	}
	return order.ShopID == shopID, nil
}

// CalculateRevenue sums COMPLETED orders placed within [start, end]
func (s *OrderService) CalculateRevenue(ctx context.Context, shopID uint, start, end time.Time) (decimal.Decimal, error) {
	if start.After(end) {
		return decimal.Zero, ErrInvalidDateRange
	}
	totals, err := s.store.Orders.CompletedTotals(ctx, shopID, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load revenue: %w", err)
	}
	return decimal.Sum(decimal.Zero, totals...), nil
}

// ValidNextStatuses lists where the order may move next
func (s *OrderService) ValidNextStatuses(order *models.Order) []models.OrderStatus {
	return statemachine.ValidTransitionsFrom(order.Status)
}
