package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	envVars := []string{
		"PRIORITIZER_PORT", "PRIORITIZER_METRICS_PORT", "PRIORITIZER_ADMIN_TOKEN",
		"PRIORITIZER_DATABASE_URL", "PRIORITIZER_EVENTS_URL", "PRIORITIZER_TRACKING_URL",
		"PRIORITIZER_MAX_BATCH", "PRIORITIZER_PIPELINE_ENABLED",
		"PRIORITIZER_PIPELINE_INTERVAL_MINUTES", "PRIORITIZER_LOG_LEVEL",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8081 {
		t.Errorf("expected metrics port 8081, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Events.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Events.URL)
	}
	if cfg.Tracking.URL != "http://localhost:5000" {
		t.Errorf("expected tracking URL, got %s", cfg.Tracking.URL)
	}
	if cfg.Tracking.Experiment != "todo-priority-model" {
		t.Errorf("expected default experiment, got %s", cfg.Tracking.Experiment)
	}
	if cfg.Scoring.MaxBatch != 50 {
		t.Errorf("expected max batch 50, got %d", cfg.Scoring.MaxBatch)
	}
	if !cfg.Pipeline.Enabled {
		t.Error("expected pipeline enabled by default")
	}
	if cfg.PipelineInterval() != 24*time.Hour {
		t.Errorf("expected daily pipeline interval, got %v", cfg.PipelineInterval())
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PRIORITIZER_PORT", "9000")
	t.Setenv("PRIORITIZER_METRICS_PORT", "9001")
	t.Setenv("PRIORITIZER_ADMIN_TOKEN", "secret-token")
	t.Setenv("PRIORITIZER_DATABASE_URL", "postgres://localhost/prioritizer_test")
	t.Setenv("PRIORITIZER_EVENTS_URL", "nats://nats:4222")
	t.Setenv("PRIORITIZER_TRACKING_URL", "http://mlflow:5000")
	t.Setenv("PRIORITIZER_MAX_BATCH", "25")
	t.Setenv("PRIORITIZER_PIPELINE_ENABLED", "false")
	t.Setenv("PRIORITIZER_PIPELINE_INTERVAL_MINUTES", "60")
	t.Setenv("PRIORITIZER_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9001 {
		t.Errorf("expected metrics port 9001, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/prioritizer_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Events.URL != "nats://nats:4222" {
		t.Errorf("expected events URL, got '%s'", cfg.Events.URL)
	}
	if cfg.Tracking.URL != "http://mlflow:5000" {
		t.Errorf("expected tracking URL, got '%s'", cfg.Tracking.URL)
	}
	if cfg.Scoring.MaxBatch != 25 {
		t.Errorf("expected max batch 25, got %d", cfg.Scoring.MaxBatch)
	}
	if cfg.Pipeline.Enabled {
		t.Error("expected pipeline disabled")
	}
	if cfg.PipelineInterval() != time.Hour {
		t.Errorf("expected hourly interval, got %v", cfg.PipelineInterval())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 8700
scoring:
  max_batch: 10
pipeline:
  interval_minutes: 30
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Scoring.MaxBatch != 10 {
		t.Errorf("expected max batch 10, got %d", cfg.Scoring.MaxBatch)
	}
	if cfg.PipelineInterval() != 30*time.Minute {
		t.Errorf("expected 30m interval, got %v", cfg.PipelineInterval())
	}
}

func TestLoadRejectsInvalidMaxBatch(t *testing.T) {
	t.Setenv("PRIORITIZER_MAX_BATCH", "0")
	if _, err := Load(""); err == nil {
		t.Error("expected error for max_batch=0")
	}
}
