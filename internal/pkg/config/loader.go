// Package config provides reusable environment-variable loaders with
// validation and fail-open fallback semantics. Invalid values never abort
// startup: the default is used and a warning is reported instead.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadResult is the outcome of loading one configuration value. Value holds
// either the parsed environment value or the default, Warnings describes any
// fallback applied.
type LoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

func fallback(envKey, raw string, err error, def interface{}) LoadResult {
	return LoadResult{
		Value:           def,
		Warnings:        []string{fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", envKey, raw, err, def)},
		FallbackApplied: true,
	}
}

// LoadEnvString returns the environment value for envKey, or defaultValue
// when unset. No validation is applied.
func LoadEnvString(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

// LoadEnvWithFallback loads a string from envKey and validates it with the
// given validator (nil skips validation). Validation failure falls back to
// defaultValue with a warning; an unset variable uses the default silently.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult{Value: defaultValue}
	}
	if validator != nil {
		if err := validator(raw); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return LoadResult{Value: raw}
}

// LoadEnvInt loads an integer from envKey with optional validation, falling
// back to defaultValue on parse or validation failure.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult{Value: defaultValue}
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback(envKey, raw, fmt.Errorf("invalid integer format"), defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return LoadResult{Value: parsed}
}

// LoadEnvDuration loads a Go duration string (e.g. "30s", "5m") from envKey
// with optional validation, falling back to defaultValue on failure.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult{Value: defaultValue}
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback(envKey, raw, err, defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return LoadResult{Value: parsed}
}
