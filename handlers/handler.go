package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"online-canteen-api/logger"
	"online-canteen-api/middleware"
	"online-canteen-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the REST API on top of the service layer
type Handler struct {
	users         *services.UserService
	auth          *services.AuthService
	shops         *services.ShopService
	menu          *services.MenuService
	orders        *services.OrderService
	notifications *services.NotificationService
}

type Deps struct {
	Users         *services.UserService
	Auth          *services.AuthService
	Shops         *services.ShopService
	Menu          *services.MenuService
	Orders        *services.OrderService
	Notifications *services.NotificationService
}

func New(d Deps) *Handler {
	return &Handler{
		users:         d.Users,
		auth:          d.Auth,
		shops:         d.Shops,
		menu:          d.Menu,
		orders:        d.Orders,
		notifications: d.Notifications,
	}
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindInvalidArgument, services.KindInvalidState:
		return http.StatusBadRequest
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error to its status code. Unclassified errors
// are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		c.JSON(statusFor(se.Kind), gin.H{"error": se.Message})
		return
	}
	logger.FromGin(c).Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Uint("user_id", middleware.GetUserID(c)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// requireShopOwner answers 404/403 itself and returns false when the caller
// may not manage shopID
func (h *Handler) requireShopOwner(c *gin.Context, shopID uint) bool {
	if _, err := h.shops.GetShop(c.Request.Context(), shopID); err != nil {
		respondError(c, err)
		return false
	}
	owned, err := h.shops.IsOwnedBy(c.Request.Context(), middleware.GetUserID(c), shopID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !owned {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only manage your own shops"})
		return false
	}
	return true
}
