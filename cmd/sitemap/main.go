package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romangod6/catalog-sitemap/config"
	"github.com/romangod6/catalog-sitemap/internal/api"
	"github.com/romangod6/catalog-sitemap/internal/app"
	"github.com/romangod6/catalog-sitemap/internal/sitemap"
	"github.com/romangod6/catalog-sitemap/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := app.New(cfg, "sitemap")
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	// Initialize API server
	server := api.NewServer(cfg.Server.Port, a.Controller, a.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup periodic refresh
	refreshDone := make(chan struct{})
	if cfg.Sitemap.RefreshInterval > 0 {
		refresher := sitemap.NewRefresher(a.Controller, cfg.Sitemap.RefreshInterval, a.Logger)
		go func() {
			defer close(refreshDone)
			refresher.Run(ctx)
		}()
	} else {
		close(refreshDone)
	}

	// Start the API server
	go func() {
		a.Logger.LogInfo("Starting API server on port %d", cfg.Server.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start API server: %v", err)
		}
	}()

	// Wait for shutdown
	waitForShutdown(cancel, server, a.Logger)

	// The stores stay open until a refresh in progress has finished.
	<-refreshDone
}

func waitForShutdown(cancel context.CancelFunc, server *api.Server, logger utils.Logger) {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.LogInfo("Shutting down...")
	cancel()

	// Graceful server shutdown
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.LogError("Error shutting down server: %v", err)
	}
	logger.LogInfo("Server shut down gracefully")
}
