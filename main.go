// Package main is the entry point for the fintrack API server.
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

	"fintrack/internal/api"
	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/logger"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("fintrack %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	if cfg.LogJSON {
		logger.SetJSON()
	}
	logger.InitHashSalt()

	shutdownTracing, err := telemetry.Init(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if err := database.SeedCurrencies(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to seed currencies")
	}

	logger.Log.Info().Msg("Database initialized successfully")

	users := repository.NewUserRepository(pool)
	accounts := repository.NewAccountRepository(pool)
	categories := repository.NewCategoryRepository(pool)
	currencies := repository.NewCurrencyRepository(pool)
	exchangeRates := repository.NewExchangeRateRepository(pool)
	budgets := repository.NewBudgetRepository(pool)
	goals := repository.NewGoalRepository(pool)

	rates := service.NewRateService(exchangeRates, currencies)
	ledger := service.NewLedgerService(pool, rates)
	planning := service.NewPlanningService(budgets, goals, categories, currencies)
	syncer := service.NewUserSyncService(users, categories)

	verifier := auth.NewVerifier(
		auth.NewJWKSCache(cfg.JWKSURL(), cfg.JWKSCacheTTL),
		cfg.IssuerURL(),
		cfg.AuthAudience,
	)

	router := api.NewRouter(api.Handlers{
		Health:       api.NewHealthHandler(service.NewHealthService(pool), version),
		Users:        api.NewUserHandler(users),
		Accounts:     api.NewAccountHandler(ledger, accounts),
		Transactions: api.NewTransactionHandler(ledger),
		Categories:   api.NewCategoryHandler(service.NewCategoryService(categories)),
		Budgets:      api.NewBudgetHandler(planning),
		Goals:        api.NewGoalHandler(planning),
		Currencies:   api.NewCurrencyHandler(currencies, rates),
	}, auth.Middleware(verifier, syncer))

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
		}
		cancel()
	}()

	logger.Log.Info().Str("addr", cfg.ListenAddr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal().Err(err).Msg("Server failed")
	}
	<-ctx.Done()
}
