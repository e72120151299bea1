package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"online-canteen-api/config"
	"online-canteen-api/handlers"
	"online-canteen-api/logger"
	"online-canteen-api/middleware"
	"online-canteen-api/repository"
	"online-canteen-api/routes"
	"online-canteen-api/services"
	"online-canteen-api/tasks"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("online-canteen-api")
	if err != nil {
		panic(err)
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic(err)
	}
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()
	log.Info("configuration loaded", cfg.LogFields()...)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}
	if err := config.SeedRoles(db); err != nil {
		log.Fatal("seed roles failed", zap.Error(err))
	}
	if err := config.SeedAdmin(db, cfg.Seed, log); err != nil {
		log.Fatal("seed admin failed", zap.Error(err))
	}

	store := repository.NewStore(db)
	jwtManager := middleware.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)

	notifications := services.NewNotificationService(store)
	users := services.NewUserService(store)
	h := handlers.New(handlers.Deps{
		Users:         users,
		Auth:          services.NewAuthService(users, jwtManager),
		Shops:         services.NewShopService(store, notifications),
		Menu:          services.NewMenuService(store),
		Orders:        services.NewOrderService(store, cfg.Location),
		Notifications: notifications,
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Strategy, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	cleaner, _ := limiter.(tasks.Cleaner)
	housekeeper := tasks.NewHousekeeper(store.Orders, cleaner, cfg.Location)
	if err := housekeeper.Start(); err != nil {
		log.Fatal("housekeeping init failed", zap.Error(err))
	}

	r, err := routes.NewRouter(routes.Options{
		ServiceName:    cfg.ServiceName,
		Handler:        h,
		JWT:            jwtManager,
		Users:          users,
		AuthLimiter:    limiter,
		CORSOrigins:    cfg.CORS.AllowOrigins,
		TrustedProxies: cfg.Proxy.Trusted,
	})
	if err != nil {
		log.Fatal("router init failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	housekeeper.Stop()
	log.Info("server exited")
}
