package scheduler

import (
	"errors"
	"time"

	appconfig "github.com/cipherpeak/cipherpeak-backend-sub000/internal/config"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

// Config controls the scheduler cadence.
type Config struct {
	Enabled     bool
	RunInterval time.Duration
	JobTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		RunInterval: time.Hour,
		JobTimeout:  5 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}

func ProvideConfig(cfg appconfig.Config) Config {
	return Config{
		Enabled:     cfg.SchedulerEnabled,
		RunInterval: cfg.SchedulerInterval,
		JobTimeout:  cfg.SchedulerTimeout,
	}
}
