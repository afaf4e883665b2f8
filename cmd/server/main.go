package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kitciruelas/soteros-backend-sub001/internal/config"
	"github.com/kitciruelas/soteros-backend-sub001/internal/delivery"
	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
	"github.com/kitciruelas/soteros-backend-sub001/internal/handler"
	"github.com/kitciruelas/soteros-backend-sub001/internal/middleware"
	"github.com/kitciruelas/soteros-backend-sub001/internal/provider"
	"github.com/kitciruelas/soteros-backend-sub001/internal/repository/postgres"
	"github.com/kitciruelas/soteros-backend-sub001/internal/repository/redis"
	"github.com/kitciruelas/soteros-backend-sub001/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logLevel := slog.LevelInfo
	if cfg.App.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("starting soteros backend",
		"env", cfg.App.Env,
		"port", cfg.Server.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply schema migrations before opening the pool
	if err := postgres.Migrate(cfg.Database.URL); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize PostgreSQL
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL")

	// Initialize Redis
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logger.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	// Initialize repositories and cache
	notificationRepo := postgres.NewNotificationRepository(db)
	badgeCache := redis.NewBadgeCache(redisClient, cfg.Redis.BadgeTTL)

	// Build the delivery fallback chain: transactional APIs first, the
	// SMTP relay as the unconditional last resort.
	metrics := handler.NewMetrics()

	engine := delivery.NewEngine(logger,
		provider.NewPostmarkProvider(cfg.Mail),
		provider.NewResendProvider(cfg.Mail),
		provider.NewSMTPProvider(cfg.Mail),
	)
	engine.SetMetrics(metrics)

	coordinator := delivery.NewCoordinator(engine, logger)

	// Initialize services
	notificationService := service.NewAdminNotificationService(
		notificationRepo, badgeCache, logger, cfg.Mail.FrontendBaseURL)

	// Initialize dashboard WebSocket hub
	wsHub := handler.NewDashboardHub(logger, metrics)
	go wsHub.Run()

	notificationService.SetCreatedHook(func(n *domain.AdminNotification) {
		metrics.RecordNotificationCreated(n.Type, string(n.Severity))
		wsHub.BroadcastNotification(n)
	})

	// Initialize handlers
	notificationHandler := handler.NewNotificationHandler(notificationService)
	mailHandler := handler.NewMailHandler(engine, coordinator)
	healthHandler := handler.NewHealthHandler()
	healthHandler.AddChecker("postgres", db)
	healthHandler.AddChecker("redis", redisClient)

	metricsHandler := handler.NewMetricsHandler(metrics)
	wsHandler := handler.NewWebSocketHandler(wsHub)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Correlation)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(chimiddleware.Compress(5))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Metrics endpoint
	r.Handle("/metrics", metricsHandler.Handler())

	// Dashboard WebSocket endpoint
	r.Get("/ws", wsHandler.HandleWebSocket)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/admins/{adminID}/notifications", func(r chi.Router) {
			notificationHandler.RegisterRoutes(r)
		})

		r.Route("/mail", func(r chi.Router) {
			mailHandler.RegisterRoutes(r)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	cancel()

	logger.Info("server stopped")
}
