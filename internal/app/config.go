package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/DataDeltas/autoCMSCheck/internal/session"
)

// Config holds everything an App instance needs to run one quantum.
// Budget fields arrive from the entry point; chained activations invoke
// the binary without flags, so they carry the defaults.
type Config struct {
	// ConfigPath is the HCL platform/CMS configuration file.
	ConfigPath string

	DurationHours int
	MaxRuns       int
	SleepSeconds  int

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.DurationHours <= 0 {
		return nil, fmt.Errorf("duration-hours must be positive, got %d", cfg.DurationHours)
	}
	if cfg.MaxRuns <= 0 {
		return nil, fmt.Errorf("max-runs must be positive, got %d", cfg.MaxRuns)
	}
	if cfg.SleepSeconds < 0 {
		return nil, fmt.Errorf("sleep-seconds must not be negative, got %d", cfg.SleepSeconds)
	}

	return &cfg, nil
}

// Limits converts the entry point budgets into session limits.
func (c *Config) Limits() session.Limits {
	return session.Limits{
		Duration: time.Duration(c.DurationHours) * time.Hour,
		MaxRuns:  c.MaxRuns,
		Sleep:    time.Duration(c.SleepSeconds) * time.Second,
	}
}
