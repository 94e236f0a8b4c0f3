package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Tracking TrackingConfig `yaml:"tracking"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type TrackingConfig struct {
	URL        string `yaml:"url"`
	Experiment string `yaml:"experiment"`
}

type ScoringConfig struct {
	MaxBatch int `yaml:"max_batch"`
}

type PipelineConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalMinutes int  `yaml:"interval_minutes"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) PipelineInterval() time.Duration {
	return time.Duration(c.Pipeline.IntervalMinutes) * time.Minute
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8080,
			MetricsPort: 8081,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Tracking: TrackingConfig{
			URL:        "http://localhost:5000",
			Experiment: "todo-priority-model",
		},
		Scoring: ScoringConfig{
			MaxBatch: 50,
		},
		Pipeline: PipelineConfig{
			Enabled:         true,
			IntervalMinutes: 24 * 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.Scoring.MaxBatch <= 0 {
		return nil, fmt.Errorf("scoring max_batch must be positive, got %d", cfg.Scoring.MaxBatch)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PRIORITIZER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("PRIORITIZER_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("PRIORITIZER_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("PRIORITIZER_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("PRIORITIZER_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("PRIORITIZER_TRACKING_URL"); v != "" {
		cfg.Tracking.URL = v
	}
	if v := os.Getenv("PRIORITIZER_MAX_BATCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.MaxBatch = n
		}
	}
	if v := os.Getenv("PRIORITIZER_PIPELINE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Pipeline.Enabled = b
		}
	}
	if v := os.Getenv("PRIORITIZER_PIPELINE_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.IntervalMinutes = n
		}
	}
	if v := os.Getenv("PRIORITIZER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
