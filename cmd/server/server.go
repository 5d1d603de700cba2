package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sms-dispatch-gateway/internal/config"
	"sms-dispatch-gateway/internal/db"
	"sms-dispatch-gateway/internal/handlers"
	"sms-dispatch-gateway/internal/models"
	"sms-dispatch-gateway/internal/provider"
	"sms-dispatch-gateway/internal/services"
	"sms-dispatch-gateway/pkg/logger"
	"sms-dispatch-gateway/router"

	"go.uber.org/zap"
)

// App holds the wired gateway: the HTTP server plus the dispatch service the
// scheduled-send loop drives.
type App struct {
	Server   *http.Server
	Dispatch *services.DispatchService
	Config   *config.Config

	database *db.Database
}

// SetupApp initializes the database, services, and HTTP server
func SetupApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}

	if cfg.Server.Port <= 0 {
		return nil, errors.New("invalid server port")
	}

	// Initialize database
	database, err := db.NewDatabase(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	credRepo := db.NewCredentialRepository(database.GetDB())
	ledgerRepo := db.NewLedgerRepository(database.GetDB())
	settingsRepo := db.NewSettingsRepository(database.GetDB())

	// Initialize services
	credentialService := services.NewCredentialService(credRepo)
	modeResolver := services.NewModeResolver(settingsRepo, cfg.Dispatch.TestDestination)
	senderResolver := services.NewSenderIdentityResolver(cfg.Senders.Mappings, cfg.Senders.DefaultSenderID)
	rateLimiter := services.NewLedgerRateLimiter(ledgerRepo, settingsRepo, models.SourceAPI)
	providerClient := provider.NewHTTPClient(
		cfg.Provider.BaseURL,
		cfg.Provider.APIKey,
		cfg.Provider.TemplateID,
		cfg.Provider.Timeout,
	)
	dispatchService := services.NewDispatchService(
		ledgerRepo,
		modeResolver,
		senderResolver,
		providerClient,
		services.FixedDelayPacing{Delay: cfg.Dispatch.BulkPacingDelay},
		cfg.Dispatch.MaxMessageLength,
	)

	// Initialize handlers and routes
	dispatchHandler := handlers.NewDispatchHandler(dispatchService, rateLimiter)
	credentialHandler := handlers.NewCredentialHandler(credentialService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerRepo)

	r := router.New(cfg, dispatchHandler, credentialHandler, ledgerHandler, credentialService)

	// Create server with security timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		Server:   srv,
		Dispatch: dispatchService,
		Config:   cfg,
		database: database,
	}, nil
}

// Run starts the HTTP server and, when configured, the scheduled-dispatch
// loop, then blocks until an interrupt signal triggers graceful shutdown.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.RunWithContext(ctx)
}

// RunWithContext starts the app with an external shutdown context
func (a *App) RunWithContext(ctx context.Context) error {
	go func() {
		logger.Info("Starting server", zap.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	if a.Config.Dispatch.SchedulerInterval > 0 {
		go a.runScheduler(ctx)
	}

	// Wait for shutdown signal or context cancellation
	<-ctx.Done()

	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := a.Server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := a.database.Close(); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}

	return nil
}

// runScheduler polls for due scheduled dispatches until the context ends.
// A poll that fails is logged and retried on the next tick.
func (a *App) runScheduler(ctx context.Context) {
	interval := a.Config.Dispatch.SchedulerInterval
	logger.Info("Starting scheduled-dispatch loop", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping scheduled-dispatch loop")
			return
		case now := <-ticker.C:
			processed, err := a.Dispatch.RunDueScheduled(ctx, now, 100)
			if err != nil {
				logger.Error("Scheduled-dispatch poll failed", zap.Error(err))
				continue
			}
			if processed > 0 {
				logger.Info("Executed scheduled dispatches", zap.Int("count", processed))
			}
		}
	}
}
