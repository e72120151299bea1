package handlers

import (
	"net/http"
	"strings"

	"online-canteen-api/middleware"
	"online-canteen-api/models"

	"github.com/gin-gonic/gin"
)

// ── Shop approval ────────────────────────────────────────────────────────────

// AdminListShops returns every shop; ?status= narrows the list
func (h *Handler) AdminListShops(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		shops []models.Shop
		err   error
	)
	if status := c.Query("status"); status != "" {
		shops, err = h.shops.ListByStatus(ctx, models.ShopStatus(strings.ToUpper(status)))
	} else {
		shops, err = h.shops.ListAll(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(shops), "shops": toShops(shops)})
}

func (h *Handler) ApproveShop(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	shop, err := h.shops.ApproveShop(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop approved", "shop": toShop(shop)})
}

func (h *Handler) RejectShop(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	shop, err := h.shops.RejectShop(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop rejected", "shop": toShop(shop)})
}

func (h *Handler) SuspendShop(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	shop, err := h.shops.SuspendShop(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop suspended", "shop": toShop(shop)})
}

func (h *Handler) CloseShop(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	shop, err := h.shops.CloseShop(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop closed", "shop": toShop(shop)})
}

// ── User management ──────────────────────────────────────────────────────────

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": toUsers(users)})
}

// listByRole returns a handler listing holders of role
func (h *Handler) listByRole(role models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := h.users.ListByRole(c.Request.Context(), role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(users), "users": toUsers(users)})
	}
}

func (h *Handler) ListCustomers() gin.HandlerFunc { return h.listByRole(models.RoleCustomer) }

func (h *Handler) ListSellers() gin.HandlerFunc { return h.listByRole(models.RoleSeller) }

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUser(user)})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) AddUserRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := models.ParseRoleName(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.AddRole(c.Request.Context(), id, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role added", "user": toUser(user)})
}

func (h *Handler) RemoveUserRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	role, err := models.ParseRoleName(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.RemoveRole(c.Request.Context(), id, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role removed", "user": toUser(user)})
}

// ── Orders ───────────────────────────────────────────────────────────────────

// AdminListOrders returns all orders; ?status= narrows the list
func (h *Handler) AdminListOrders(c *gin.Context) {
	status := models.OrderStatus(strings.ToUpper(c.Query("status")))
	orders, err := h.orders.GetByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": toOrders(orders)})
}
