package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds process settings, populated from environment variables.
type Config struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// MetricsTextfile, when set, receives the run's metrics in Prometheus
	// text format for the node exporter textfile collector.
	MetricsTextfile string `envconfig:"METRICS_TEXTFILE"`

	// ProfilePath points at an optional YAML profile with default options.
	ProfilePath string `envconfig:"NWSS_PROFILE"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	return &cfg, nil
}
