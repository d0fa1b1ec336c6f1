package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stwalsh4118/kodiserv/internal/config"
	"github.com/stwalsh4118/kodiserv/internal/db"
	"github.com/stwalsh4118/kodiserv/internal/logger"
	"github.com/stwalsh4118/kodiserv/internal/server"
)

const (
	migrationsPath  = "file://./migrations"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", true)
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to access database")
	}
	if err := db.RunMigrations(sqlDB, migrationsPath); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	srv := server.New(cfg, database)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		logger.Log.Error().Err(err).Msg("Server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
