// Package main is the entry point for the expense tracker API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/yelinaung/expense-api/internal/api"
	"gitlab.com/yelinaung/expense-api/internal/config"
	"gitlab.com/yelinaung/expense-api/internal/database"
	"gitlab.com/yelinaung/expense-api/internal/gemini"
	"gitlab.com/yelinaung/expense-api/internal/logger"
	"gitlab.com/yelinaung/expense-api/internal/service"
	"gitlab.com/yelinaung/expense-api/internal/store"
	"gitlab.com/yelinaung/expense-api/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("expense-api %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	logger.InitHashSalt()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to set up telemetry")
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Log.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	var st store.Store
	if cfg.UseMemoryStore() {
		logger.Log.Warn().Msg("DATABASE_URL not set, using in-memory store (data is not persisted)")
		st = store.NewMemoryStore()
	} else {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()

		if err := database.RunMigrations(ctx, pool); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		logger.Log.Info().Msg("Database initialized successfully")

		st = store.NewPostgresStore(pool)
	}

	var suggester *gemini.Client
	if cfg.GeminiAPIKey != "" {
		suggester, err = gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
	}

	srv := api.New(service.New(st), suggester, cfg.Port)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server error")
	}
}
