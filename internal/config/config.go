// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

// Package config loads and validates service configuration with
// layered sources: struct defaults, an optional YAML file, and
// environment variable overrides (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Mining    MiningConfig    `koanf:"mining"`
	Recommend RecommendConfig `koanf:"recommend"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout is the per-request read/write timeout.
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Empty means in-memory.
	Path string `koanf:"path"`

	// MaxMemory is the DuckDB memory limit (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. Zero uses all CPUs.
	Threads int `koanf:"threads"`
}

// MiningConfig holds mining thresholds and scheduling.
type MiningConfig struct {
	// MinSupport is the minimum itemset support in (0, 1].
	MinSupport float64 `koanf:"min_support"`

	// MinConfidence is the minimum rule confidence in [0, 1].
	MinConfidence float64 `koanf:"min_confidence"`

	// MinLift is the minimum rule lift.
	MinLift float64 `koanf:"min_lift"`

	// Interval is the time between scheduled mining runs.
	Interval time.Duration `koanf:"interval"`

	// MineOnStartup triggers a mining pass when the service starts.
	MineOnStartup bool `koanf:"mine_on_startup"`

	// MaxTenantWorkers bounds concurrent per-tenant runs.
	MaxTenantWorkers int `koanf:"max_tenant_workers"`

	// ParallelThreshold is the transaction count above which candidate
	// counting is partitioned across workers.
	ParallelThreshold int `koanf:"parallel_threshold"`

	// CountWorkers is the partition count for parallel counting.
	CountWorkers int `koanf:"count_workers"`
}

// RecommendConfig holds recommendation service settings.
type RecommendConfig struct {
	// DefaultLimit is the result count when the caller passes none.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps caller-supplied result counts.
	MaxLimit int `koanf:"max_limit"`

	// BreakerFailureThreshold is consecutive fetch failures before
	// the data circuit breaker opens.
	BreakerFailureThreshold int `koanf:"breaker_failure_threshold"`

	// BreakerTimeout is how long the circuit stays open.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// APIConfig holds API surface settings.
type APIConfig struct {
	// RateLimitRequests is the per-IP request budget per window.
	RateLimitRequests int `koanf:"rate_limit_requests"`

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller info in log lines.
	Caller bool `koanf:"caller"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}

	if c.Mining.MinSupport <= 0 || c.Mining.MinSupport > 1 {
		return fmt.Errorf("mining.min_support must be in (0, 1], got %f", c.Mining.MinSupport)
	}
	if c.Mining.MinConfidence < 0 || c.Mining.MinConfidence > 1 {
		return fmt.Errorf("mining.min_confidence must be in [0, 1], got %f", c.Mining.MinConfidence)
	}
	if c.Mining.MinLift < 0 {
		return fmt.Errorf("mining.min_lift must be non-negative, got %f", c.Mining.MinLift)
	}
	if c.Mining.Interval <= 0 {
		return fmt.Errorf("mining.interval must be positive, got %v", c.Mining.Interval)
	}
	if c.Mining.MaxTenantWorkers < 1 {
		return fmt.Errorf("mining.max_tenant_workers must be positive, got %d", c.Mining.MaxTenantWorkers)
	}

	if c.Recommend.DefaultLimit < 1 {
		return fmt.Errorf("recommend.default_limit must be positive, got %d", c.Recommend.DefaultLimit)
	}
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("recommend.max_limit must be >= recommend.default_limit, got %d < %d",
			c.Recommend.MaxLimit, c.Recommend.DefaultLimit)
	}

	if c.API.RateLimitRequests < 1 {
		return fmt.Errorf("api.rate_limit_requests must be positive, got %d", c.API.RateLimitRequests)
	}
	if c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive, got %v", c.API.RateLimitWindow)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}
