package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet-ledger/config"
	httpHandler "wallet-ledger/internal/adapter/http/handler"
	pgStorage "wallet-ledger/internal/adapter/storage/postgres"
	redisStorage "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Wallet Ledger")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	branchRepo := pgStorage.NewBranchRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	settingsRepo := pgStorage.NewSettingsRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)

	// Initialize Redis stores
	settingsCache := redisStorage.NewSettingsCache(rdb)

	// Select the wallet serialization strategy
	var executor ports.Executor
	switch cfg.Ledger.Executor {
	case "atomic":
		executor = pgStorage.NewAtomicExecutor(pool)
	case "serialized":
		executor = pgStorage.NewSerializedExecutor(pool)
	default:
		log.Fatal().Str("executor", cfg.Ledger.Executor).Msg("Unknown ledger executor")
	}
	log.Info().Str("executor", cfg.Ledger.Executor).Msg("Ledger executor selected")

	// Initialize business services
	auditSvc := service.NewAuditService(auditRepo, log)
	settingsSvc := service.NewSettingsService(settingsRepo, settingsCache, cfg.Ledger.SettingsTTL, log)
	ledgerSvc := service.NewLedgerService(
		accountRepo,
		branchRepo,
		txRepo,
		settingsSvc,
		executor,
		auditSvc,
		cfg.Ledger.ReversalWindow,
		log,
	)
	dayWindow := service.NewDayWindow(nil)
	dashboardSvc := service.NewDashboardService(txRepo, dayWindow, log)
	adminSvc := service.NewAdminService(accountRepo, branchRepo, log)

	// Daily reset scheduler
	var scheduler *service.ResetScheduler
	if cfg.Scheduler.Enabled {
		scheduler = service.NewResetScheduler(dayWindow, cfg.Scheduler.CheckInterval, log)
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LedgerSvc:      ledgerSvc,
		DashboardSvc:   dashboardSvc,
		SettingsSvc:    settingsSvc,
		AdminSvc:       adminSvc,
		AccountRepo:    accountRepo,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
