package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/drug-recommendation-server/internal/api"
	"github.com/drug-recommendation-server/internal/config"
	"github.com/drug-recommendation-server/internal/setup"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := setup.NewLogger(cfg.Logging)

	engine, err := setup.NewEngine(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create recommendation engine")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the dataset and train in the background so the server can
	// answer health checks immediately. Predictions return a retryable
	// error until the model is swapped in.
	go func() {
		if err := setup.LoadEngine(ctx, cfg, engine, logger); err != nil {
			logger.WithError(err).Fatal("Failed to load recommendation model")
		}
	}()

	// Create server
	server := api.NewServer(configManager, engine, logger)

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting drug recommendation server")

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}

	logger.Info("Server stopped")
}
