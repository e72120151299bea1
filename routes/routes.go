package routes

import (
	"fmt"
	"net/http"

	"online-canteen-api/handlers"
	"online-canteen-api/logger"
	"online-canteen-api/metrics"
	"online-canteen-api/middleware"
	"online-canteen-api/models"

	"github.com/gin-gonic/gin"
)

type Options struct {
	ServiceName    string
	Handler        *handlers.Handler
	JWT            *middleware.JWTManager
	// Users loads the caller on every authenticated request
	Users          middleware.UserLoader
	AuthLimiter    middleware.RateLimiter
	CORSOrigins    []string
	TrustedProxies []string
}

// NewRouter assembles the engine with the ambient middleware and every route
func NewRouter(opts Options) (*gin.Engine, error) {
	middleware.RegisterValidators()

	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(
		gin.Recovery(),
		logger.Middleware(),
		metrics.NewHTTPMetrics(opts.ServiceName).Middleware(),
		middleware.CORS(opts.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": opts.ServiceName,
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Online Canteen API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   models.AllRoles,
		})
	})

	SetupRoutes(r, opts)
	return r, nil
}

func SetupRoutes(r *gin.Engine, opts Options) {
	h := opts.Handler
	authRequired := middleware.AuthRequired(opts.JWT, opts.Users)
	sellerOnly := middleware.RoleRequired(models.RoleSeller)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth, throttled per client
		limited := public.Group("/auth", middleware.RateLimit(opts.AuthLimiter))
		limited.POST("/register", h.Register)
		limited.POST("/login", h.Login)

		// Shops & menus (no auth needed)
		public.GET("/shops", h.ListShops)
		public.GET("/shops/:id", h.GetShop)
		public.GET("/shops/:id/menu", h.GetMenu)
		public.GET("/shops/:id/menu/search", h.SearchMenu)
		public.GET("/shops/:id/menu/price", h.MenuByMaxPrice)
		public.GET("/shops/:id/menu/count", h.CountAvailableMenu)
		public.GET("/menu-items/:id", h.GetMenuItem)
		public.GET("/menu-items/:id/options", h.GetMenuItemOptions)
		public.GET("/locations", h.ListLocations)

		// State machine info
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(authRequired)
	{
		auth.GET("/auth/check", h.CheckAuth)
		auth.POST("/auth/refresh-token", h.RefreshToken)

		auth.GET("/users/profile", h.GetProfile)
		auth.PUT("/users/profile", h.UpdateProfile)
		auth.DELETE("/users/profile", h.DeleteAccount)
		auth.PUT("/users/profile/password", h.ChangePassword)

		auth.GET("/notifications", h.GetNotifications)
		auth.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
		auth.PUT("/notifications/:id/read", h.MarkNotificationRead)

		// Any user may apply for a shop; ownership gates the rest
		auth.POST("/shops", h.CreateShop)
		auth.GET("/shops/my-shops", h.GetMyShops)
		auth.PUT("/shops/:id", h.UpdateShop)
		auth.DELETE("/shops/:id", h.DeleteShop)
	}

	// ── Seller routes ──────────────────────────────────────────────
	seller := r.Group("/api")
	seller.Use(authRequired, sellerOnly)
	{
		seller.PUT("/shops/:id/toggle-status", h.ToggleShopStatus)

		// Menu management
		seller.POST("/shops/:id/menu-items", h.CreateMenuItem)
		seller.PUT("/menu-items/:id", h.UpdateMenuItem)
		seller.PUT("/menu-items/:id/availability", h.UpdateMenuItemAvailability)
		seller.DELETE("/menu-items/:id", h.DeleteMenuItem)

		// Order management
		seller.GET("/shops/:id/orders", h.GetShopOrders)
		seller.GET("/shops/:id/orders/active", h.GetActiveShopOrders)
		seller.GET("/shops/:id/revenue", h.GetShopRevenue)
	}

	// ── Order routes ───────────────────────────────────────────────
	orders := r.Group("/api/orders")
	orders.Use(authRequired)
	{
		orders.POST("", middleware.RoleRequired(models.RoleCustomer), h.PlaceOrder)
		orders.GET("/my-orders", h.GetMyOrders)
		orders.GET("/my-shop-orders", sellerOnly, h.GetMyShopOrders)
		orders.GET("/:id", h.GetOrderDetail)
		orders.PUT("/:id/status", h.UpdateOrderStatus)
		orders.POST("/:id/cancel", h.CancelOrder)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(authRequired, middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/shops", h.AdminListShops)
		admin.PUT("/shops/:id/approve", h.ApproveShop)
		admin.PUT("/shops/:id/reject", h.RejectShop)
		admin.PUT("/shops/:id/suspend", h.SuspendShop)
		admin.PUT("/shops/:id/close", h.CloseShop)

		admin.GET("/users", h.ListUsers)
		admin.GET("/users/customers", h.ListCustomers())
		admin.GET("/users/sellers", h.ListSellers())
		admin.GET("/users/:id", h.GetUser)
		admin.DELETE("/users/:id", h.DeleteUser)
		admin.POST("/users/:id/roles", h.AddUserRole)
		admin.DELETE("/users/:id/roles/:role", h.RemoveUserRole)

		admin.GET("/orders", h.AdminListOrders)
	}
}
