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

	"go.uber.org/zap"

	"market-value-dashboard/internal/config"
	"market-value-dashboard/internal/database"
	"market-value-dashboard/internal/logger"
	"market-value-dashboard/internal/metrics"
	"market-value-dashboard/internal/pipeline"
	"market-value-dashboard/internal/source"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Open the snapshot catalog
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Setup context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the datasets once; a failure here means nothing can be served.
	m := metrics.NewManagerFromConfig(&cfg.Metrics)
	fetcher := source.NewFetcher(&cfg.Fetch, log, m)
	result, err := pipeline.New(log, &cfg, fetcher, db, m).Run(ctx)
	if err != nil {
		log.Fatal("Failed to load player data", zap.Error(err))
	}

	apiHandler := NewAPIHandler(log.Named("api"), result.Store, db, m, result.LoadID)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           apiHandler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting web server", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Web server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received, gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Web server shutdown failed", zap.Error(err))
	}

	log.Info("Dashboard has been shut down.")
}
