package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Shriiii01/investment-agent/internal/agent"
	"github.com/Shriiii01/investment-agent/internal/api"
	"github.com/Shriiii01/investment-agent/internal/api/handlers"
	"github.com/Shriiii01/investment-agent/internal/cache"
	"github.com/Shriiii01/investment-agent/internal/config"
	"github.com/Shriiii01/investment-agent/internal/export"
	"github.com/Shriiii01/investment-agent/internal/logging"
	"github.com/Shriiii01/investment-agent/internal/marketdata"
	"github.com/Shriiii01/investment-agent/internal/services"
	"github.com/Shriiii01/investment-agent/internal/store"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)

	fileCache, err := cache.New(cfg.Cache.Dir, time.Duration(cfg.Cache.TTLSeconds)*time.Second, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize cache")
	}

	history, err := store.NewHistoryStore(cfg.Storage.DataDir, cfg.Storage.MaxHistoryRecords, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize history store")
	}
	settings, err := store.NewSettingsStore(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize settings store")
	}

	exporter, err := export.NewManager(cfg.Export.Dir, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize export manager")
	}

	narrator, err := agent.NewClient(cfg.Agent, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize narrative agent")
	}

	provider := marketdata.NewClient(cfg.MarketData, logger)
	monitor := services.NewPerformanceMonitor(logger)
	analysis := services.NewAnalysisService(fileCache, history, settings, provider, narrator,
		monitor, cfg.Analysis.RSIPeriod, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.Dependencies{
		Analysis:    handlers.NewAnalysisHandler(analysis),
		History:     handlers.NewHistoryHandler(history),
		Settings:    handlers.NewSettingsHandler(settings),
		Cache:       handlers.NewCacheHandler(fileCache),
		Export:      handlers.NewExportHandler(exporter, history),
		Performance: handlers.NewPerformanceHandler(monitor),

		CacheCheck:   fileCache,
		StorageCheck: history,
		AgentCheck:   narrator,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}
	logger.Info("Server exited")
}
