package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/smarttodo/prioritizer/internal/api"
	"github.com/smarttodo/prioritizer/internal/config"
	"github.com/smarttodo/prioritizer/internal/events"
	"github.com/smarttodo/prioritizer/internal/pipeline"
	"github.com/smarttodo/prioritizer/internal/scoring"
	"github.com/smarttodo/prioritizer/internal/store"
	"github.com/smarttodo/prioritizer/internal/tracking"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Events (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to event bus, running without events", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to event bus")
		}
	}

	// Tracking (optional)
	var tracker tracking.Client
	if cfg.Tracking.URL != "" {
		tracker = tracking.NewHTTPClient(cfg.Tracking.URL)
	}

	// Scorer
	scorer := scoring.NewScorer(logger)

	// Pipeline
	if cfg.Pipeline.Enabled {
		runner := pipeline.New(db, tracker, eventsClient, cfg.PipelineInterval(), cfg.Tracking.Experiment, logger)
		runner.Start(ctx)
		defer runner.Stop()
		logger.Info("pipeline started", "interval", cfg.PipelineInterval())
	}

	// API server
	router := api.NewRouter(db, scorer, eventsClient, cfg.Scoring.MaxBatch, cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
