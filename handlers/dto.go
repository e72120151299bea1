package handlers

import (
	"time"

	"online-canteen-api/models"
	"online-canteen-api/statemachine"

	"github.com/shopspring/decimal"
)

// money renders amounts with exactly two decimals
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type UserResponse struct {
	ID          uint              `json:"id"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	FullName    string            `json:"full_name"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	Roles       []models.RoleName `json:"roles"`
	PrimaryRole models.RoleName   `json:"primary_role"`
	CreatedAt   time.Time         `json:"created_at"`
}

func toUser(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		AvatarURL:   u.AvatarURL,
		Roles:       u.RoleNames(),
		PrimaryRole: u.PrimaryRole(),
		CreatedAt:   u.CreatedAt,
	}
}

func toUsers(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUser(&users[i]))
	}
	return out
}

type ShopResponse struct {
	ID            uint                `json:"id"`
	OwnerID       uint                `json:"owner_id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Address       string              `json:"address"`
	Location      models.ShopLocation `json:"location"`
	LocationName  string              `json:"location_name"`
	ContactNumber string              `json:"contact_number"`
	ImageURL      string              `json:"image_url,omitempty"`
	Status        models.ShopStatus   `json:"status"`
	IsOpen        bool                `json:"is_open"`
	IsOperational bool                `json:"is_operational"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func toShop(s *models.Shop) ShopResponse {
	return ShopResponse{
		ID:            s.ID,
		OwnerID:       s.OwnerID,
		Name:          s.Name,
		Description:   s.Description,
		Address:       s.Address,
		Location:      s.Location,
		LocationName:  s.Location.DisplayName(),
		ContactNumber: s.ContactNumber,
		ImageURL:      s.ImageURL,
		Status:        s.Status,
		IsOpen:        s.IsOpen,
		IsOperational: s.IsOperational(),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toShops(shops []models.Shop) []ShopResponse {
	out := make([]ShopResponse, 0, len(shops))
	for i := range shops {
		out = append(out, toShop(&shops[i]))
	}
	return out
}

type AddonResponse struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
	Price string `json:"price"`
}

type MenuItemResponse struct {
	ID          uint            `json:"id"`
	ShopID      uint            `json:"shop_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url,omitempty"`
	Price       string          `json:"price"`
	IsAvailable bool            `json:"is_available"`
	Variants    []string        `json:"variants,omitempty"`
	Addons      []AddonResponse `json:"addons,omitempty"`
	Flavors     []string        `json:"flavors,omitempty"`
}

func toMenuItem(m *models.MenuItem) MenuItemResponse {
	resp := MenuItemResponse{
		ID:          m.ID,
		ShopID:      m.ShopID,
		Name:        m.Name,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		Price:       money(m.Price),
		IsAvailable: m.IsAvailable,
	}
	for _, v := range m.Variants {
		resp.Variants = append(resp.Variants, v.Name)
	}
	for _, a := range m.Addons {
		resp.Addons = append(resp.Addons, AddonResponse{ID: a.ID, Label: a.Label, Price: money(a.Price)})
	}
	for _, f := range m.Flavors {
		resp.Flavors = append(resp.Flavors, f.Name)
	}
	return resp
}

func toMenuItems(items []models.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toMenuItem(&items[i]))
	}
	return out
}

type OrderItemResponse struct {
	ID              uint   `json:"id"`
	MenuItemID      uint   `json:"menu_item_id"`
	ItemName        string `json:"item_name"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase string `json:"price_at_purchase"`
	Subtotal        string `json:"subtotal"`
}

type StatusChangeResponse struct {
	From      models.OrderStatus `json:"from,omitempty"`
	To        models.OrderStatus `json:"to"`
	ChangedBy uint               `json:"changed_by"`
	Note      string             `json:"note,omitempty"`
	At        time.Time          `json:"at"`
}

type OrderResponse struct {
	ID                 uint                   `json:"id"`
	CustomerID         uint                   `json:"customer_id"`
	ShopID             uint                   `json:"shop_id"`
	Status             models.OrderStatus     `json:"status"`
	TotalAmount        string                 `json:"total_amount"`
	QueueNumber        int                    `json:"queue_number"`
	QueueDay           string                 `json:"queue_day"`
	OrderDateTime      time.Time              `json:"order_date_time"`
	Notes              string                 `json:"notes,omitempty"`
	CancelledAt        *time.Time             `json:"cancelled_at,omitempty"`
	CancellationReason string                 `json:"cancellation_reason,omitempty"`
	Items              []OrderItemResponse    `json:"items"`
	History            []StatusChangeResponse `json:"history,omitempty"`
	NextStatuses       []models.OrderStatus   `json:"next_statuses"`
}

func toOrder(o *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:                 o.ID,
		CustomerID:         o.CustomerID,
		ShopID:             o.ShopID,
		Status:             o.Status,
		TotalAmount:        money(o.TotalAmount),
		QueueNumber:        o.QueueNumber,
		QueueDay:           o.QueueDay,
		OrderDateTime:      o.OrderDateTime,
		Notes:              o.Notes,
		CancelledAt:        o.CancelledAt,
		CancellationReason: o.CancellationReason,
		Items:              make([]OrderItemResponse, 0, len(o.Items)),
		NextStatuses:       statemachine.ValidTransitionsFrom(o.Status),
	}
	for i := range o.Items {
		it := &o.Items[i]
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:              it.ID,
			MenuItemID:      it.MenuItemID,
			ItemName:        it.ItemName,
			Quantity:        it.Quantity,
			PriceAtPurchase: money(it.PriceAtPurchase),
			Subtotal:        money(it.Subtotal()),
		})
	}
	for _, h := range o.StatusHistory {
		resp.History = append(resp.History, StatusChangeResponse{
			From: h.FromStatus, To: h.ToStatus, ChangedBy: h.ChangedBy, Note: h.Note, At: h.CreatedAt,
		})
	}
	return resp
}

func toOrders(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrder(&orders[i]))
	}
	return out
}

type NotificationResponse struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotifications(list []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, NotificationResponse{ID: n.ID, Message: n.Message, IsRead: n.IsRead, CreatedAt: n.CreatedAt})
	}
	return out
}
