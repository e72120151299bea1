package handlers

import (
	"net/http"
	"strings"

	"online-canteen-api/middleware"
	"online-canteen-api/models"
	"online-canteen-api/services"
	"online-canteen-api/statemachine"

	"github.com/gin-gonic/gin"
)

type OrderLineRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	ShopID uint               `json:"shop_id" binding:"required"`
	Notes  string             `json:"notes" binding:"max=500"`
	Items  []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// PlaceOrder creates a new order (customer only)
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lines := make([]services.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, services.OrderLine{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), middleware.GetUserID(c), req.ShopID, lines, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Order placed successfully",
		"order":        toOrder(order),
		"queue_number": order.QueueNumber,
	})
}

// GetMyOrders returns all orders placed by the caller
func (h *Handler) GetMyOrders(c *gin.Context) {
	orders, err := h.orders.GetByCustomer(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": toOrders(orders)})
}

// GetMyShopOrders returns orders received by every shop the caller owns
func (h *Handler) GetMyShopOrders(c *gin.Context) {
	ctx := c.Request.Context()
	shops, err := h.shops.ListByOwner(ctx, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	all := []models.Order{}
	for _, s := range shops {
		orders, err := h.orders.GetByShop(ctx, s.ID, "")
		if err != nil {
			respondError(c, err)
			return
		}
		all = append(all, orders...)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(all), "orders": toOrders(all)})
}

// actorFor resolves how the caller relates to order: the owning seller wins
// over the ordering customer. It answers 403 itself when neither applies.
func (h *Handler) actorFor(c *gin.Context, order *models.Order) (statemachine.Actor, bool) {
	userID := middleware.GetUserID(c)
	if middleware.HasRole(c, models.RoleSeller) {
		owned, err := h.shops.IsOwnedBy(c.Request.Context(), userID, order.ShopID)
		if err != nil {
			respondError(c, err)
			return "", false
		}
		if owned {
			return statemachine.ActorSeller, true
		}
	}
	if order.CustomerID == userID {
		return statemachine.ActorCustomer, true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this order"})
	return "", false
}

// GetOrderDetail is visible to the ordering customer, the shop owner and admins
func (h *Handler) GetOrderDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !middleware.HasRole(c, models.RoleAdmin) {
		if _, ok := h.actorFor(c, order); !ok {
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"order": toOrder(order)})
}

// UpdateOrderStatus moves an order along the kitchen flow. Only the shop owner
// may do so; a customer may only use it to cancel.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to := models.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !to.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: " + req.Status})
		return
	}

	ctx := c.Request.Context()
	order, err := h.orders.GetOrder(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	actor, ok := h.actorFor(c, order)
	if !ok {
		return
	}
	if actor == statemachine.ActorCustomer && to != models.StatusCancelled {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the shop owner can update order status"})
		return
	}

	if to == models.StatusCancelled {
		order, err = h.orders.CancelOrder(ctx, id, req.Reason, actor, middleware.GetUserID(c))
	} else {
		order, err = h.orders.UpdateOrderStatus(ctx, id, to, actor, middleware.GetUserID(c))
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated to " + string(order.Status), "order": toOrder(order)})
}

// CancelOrder cancels an order for its customer or the shop owner
func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ctx := c.Request.Context()
	order, err := h.orders.GetOrder(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	actor, ok := h.actorFor(c, order)
	if !ok {
		return
	}
	order, err = h.orders.CancelOrder(ctx, id, req.Reason, actor, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": toOrder(order)})
}
