package worker

import (
	"fmt"
	"log/slog"
	"time"

	"morning-brief/internal/pkg/config"
)

// WorkerConfig holds the scheduling and operational parameters for the
// briefing worker.
//
// All fields have defaults and validation rules so the worker can start
// safely even with missing or invalid environment configuration.
type WorkerConfig struct {
	// CronSchedule is the cron expression for the daily briefing run.
	// Format: "minute hour day month weekday"
	// Default: "0 7 * * *" (every day at 07:00)
	CronSchedule string

	// Timezone is the IANA timezone name used for cron scheduling.
	// Default: "Asia/Kolkata"
	Timezone string

	// RunTimeout is the maximum duration for a single briefing run.
	// The run context is cancelled after this timeout.
	// Default: 10 minutes
	RunTimeout time.Duration

	// HealthPort is the port for the health check HTTP server.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int

	// MetricsPort is the port for the Prometheus metrics HTTP server.
	// Range: 1024-65535
	// Default: 9090
	MetricsPort int
}

// DefaultConfig returns a WorkerConfig with production defaults: one
// briefing at 07:00 local time, a 10-minute run timeout, and the usual
// exporter ports.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "0 7 * * *",
		Timezone:     "Asia/Kolkata",
		RunTimeout:   10 * time.Minute,
		HealthPort:   9091,
		MetricsPort:  9090,
	}
}

// Validate checks the configuration values. All field errors are
// collected and returned together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.RunTimeout); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads worker configuration from environment
// variables with a fail-open strategy: each invalid value falls back to
// its default with a warning and a metric, and the function never
// returns an error.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default "0 7 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default "Asia/Kolkata")
//   - RUN_TIMEOUT: duration string, e.g. "10m" (range 1m-1h)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default 9091)
//   - METRICS_PORT: integer 1024-65535 (default 9090)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field string, result config.LoadResult) {
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field, "default")
		for _, warning := range result.Warnings {
			logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	if result.FallbackApplied {
		warn("cron_schedule", result)
	}

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		warn("timezone", result)
	}

	result = config.LoadEnvDuration("RUN_TIMEOUT", cfg.RunTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, time.Hour)
	})
	cfg.RunTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		warn("run_timeout", result)
	}

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		warn("health_port", result)
	}

	result = config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.MetricsPort = result.Value.(int)
	if result.FallbackApplied {
		warn("metrics_port", result)
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
