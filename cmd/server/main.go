package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/comanda/backend/internal/application/billing"
	catalogapp "github.com/comanda/backend/internal/application/catalog"
	deliveryapp "github.com/comanda/backend/internal/application/delivery"
	orderapp "github.com/comanda/backend/internal/application/ordering"
	"github.com/comanda/backend/internal/infrastructure/cache"
	"github.com/comanda/backend/internal/infrastructure/config"
	"github.com/comanda/backend/internal/infrastructure/event"
	"github.com/comanda/backend/internal/infrastructure/logger"
	"github.com/comanda/backend/internal/infrastructure/payment"
	"github.com/comanda/backend/internal/infrastructure/persistence"
	"github.com/comanda/backend/internal/infrastructure/telemetry"
	"github.com/comanda/backend/internal/interfaces/http/handler"
	"github.com/comanda/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Comanda backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	tracer, err := telemetry.NewTracerProvider(context.Background(), &cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis when available, in-memory outside production
	idempotency, err := cache.NewIdempotencyStore(&cfg.Redis, cfg.App.Env != "production", log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if closer, ok := idempotency.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Error("Error closing idempotency store", zap.Error(err))
			}
		}
	}()

	// Repositories
	planRepo := persistence.NewGormPlanRepository(db.DB)
	usageRepo := persistence.NewGormUsageRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	tableRepo := persistence.NewGormTableRepository(db.DB)
	tierRepo := persistence.NewGormTierRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	menuRepo := persistence.NewGormMenuRepository(db.DB)
	tx := persistence.NewGormTxRunner(db.DB)

	// Payment collaborator
	checkout := payment.NewHostedCheckoutProvider(&cfg.Payment, log)
	verifier := payment.NewWebhookVerifier(&cfg.Payment)

	// Event bus and subscribers
	eventBus := event.NewInMemoryEventBus(log)
	activityHandler := orderapp.NewOrderActivityHandler(log)
	eventBus.Subscribe(activityHandler)
	log.Info("Event handlers registered",
		zap.Strings("order_activity_events", activityHandler.EventTypes()))

	// Application services
	quotaService := billingapp.NewQuotaService(planRepo, usageRepo, log)
	planService := billingapp.NewPlanService(planRepo, idempotency, eventBus, log)
	topupService := billingapp.NewTopupService(orderRepo, idempotency, eventBus, log)
	admissionService := orderapp.NewAdmissionService(planRepo, quotaService, orderRepo,
		tableRepo, tierRepo, settingsRepo, menuRepo, checkout, tx, eventBus, log)
	lifecycleService := orderapp.NewLifecycleService(orderRepo, eventBus, log)
	tableService := orderapp.NewTableService(tableRepo, orderRepo, tx, eventBus, log)
	cycleService := orderapp.NewCycleService(orderRepo, tableRepo, quotaService, tx, eventBus, log)
	tierService := deliveryapp.NewTierService(tierRepo, settingsRepo, log)
	menuService := catalogapp.NewMenuService(menuRepo, log)

	// HTTP wiring
	r := router.New(cfg, log)
	r.RegisterPublic(
		handler.NewSystemHandler(db, version),
		handler.NewPaymentWebhookHandler(topupService, planService, verifier, log),
	)
	r.Register(
		handler.NewOrderHandler(admissionService, lifecycleService),
		handler.NewTableHandler(tableService, admissionService),
		handler.NewMenuHandler(menuService),
		handler.NewDeliveryHandler(tierService),
		handler.NewPlanHandler(planService),
		handler.NewUsageHandler(quotaService),
		handler.NewCycleHandler(cycleService),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r.Engine(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
