package main

import (
	"context"
	"coursell/backend/internal/api"
	"coursell/backend/internal/bootstrap"
	"coursell/backend/internal/config"
	"coursell/backend/internal/events"
	"coursell/backend/internal/logger"
	"coursell/backend/internal/metrics"
	"coursell/backend/internal/ratelimit"
	"coursell/backend/internal/service"
	"coursell/backend/internal/storage"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Coursell API
// @version 1.0
// @description Course catalog, purchases and gated course content.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = appLog.Sync() }()
	appLog.Info("starting Coursell server",
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.Database.Driver),
	)

	// --- Repositories ---
	store, err := bootstrap.OpenStore(cfg.Database, appLog)
	if err != nil {
		appLog.Fatal("could not open repositories", zap.Error(err))
	}
	defer store.Close()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, appLog)
		if err != nil {
			appLog.Fatal("failed to initialize S3 storage", zap.Error(err))
		}
	} else {
		appLog.Info("media storage disabled; upload routes answer 503")
	}

	// --- Events ---
	publisher := events.NewNoop()
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := events.NewRabbit(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			appLog.Warn("RabbitMQ unavailable, domain events are dropped", zap.Error(err))
		} else {
			publisher = rabbit
			appLog.Info("publishing domain events", zap.String("exchange", cfg.RabbitMQ.Exchange))
		}
	}
	defer func() { _ = publisher.Close() }()

	// --- Rate limiting ---
	var limiter ratelimit.Limiter = ratelimit.NewMemory(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	if cfg.RateLimit.RedisAddr != "" {
		redisLimiter := ratelimit.NewRedis(cfg.RateLimit.RedisAddr, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisLimiter.Ping(pingCtx); err != nil {
			appLog.Warn("Redis not reachable yet, rate limiter fails open until it is", zap.Error(err))
		}
		cancel()
		defer func() { _ = redisLimiter.Close() }()
		limiter = redisLimiter
	}

	metrics.MustRegister()

	// --- Initialize Services ---
	tokens := service.NewTokenService(service.TokenConfig{
		UserSecret:      cfg.JWT.UserSecret,
		AdminSecret:     cfg.JWT.AdminSecret,
		UserExpiration:  cfg.JWT.UserExpiration,
		AdminExpiration: cfg.JWT.AdminExpiration,
		Issuer:          cfg.JWT.Issuer,
	})
	authService := service.NewAuthService(store.Users, tokens, publisher, appLog)
	adminService := service.NewAdminService(store.Admins, tokens)
	courseService := service.NewCourseService(store.Courses, store.Admins, store.Purchases, store.Uploads, fileStorage, appLog)
	purchaseService := service.NewPurchaseService(store.Purchases, store.Courses, publisher, appLog)

	// --- Router ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Environment:     cfg.Environment,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		TrustedProxies:  cfg.Server.TrustedProxies,
		Log:             appLog,
		Limiter:         limiter,
		Tokens:          tokens,
		AuthService:     authService,
		AdminService:    adminService,
		CourseService:   courseService,
		PurchaseService: purchaseService,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	if err := serve(server, quit, appLog); err != nil {
		appLog.Error("server stopped", zap.Error(err))
	}
	appLog.Info("server exiting")
}

// serve runs the server until quit fires or ListenAndServe fails, then shuts
// it down. It always returns so the deferred closes in main run.
func serve(server *http.Server, quit <-chan os.Signal, appLog *zap.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		appLog.Info("server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case err := <-serverErr:
		runErr = err
	case <-quit:
		appLog.Info("shutting down server")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLog.Error("server forced to shutdown", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}
