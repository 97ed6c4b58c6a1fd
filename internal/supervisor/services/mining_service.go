// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

// Package services provides suture service wrappers for application
// components.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// MiningEngine is the part of the basket engine the scheduler needs.
// Declared here to avoid a circular import with the engine package.
type MiningEngine interface {
	// MineAll runs mining for every tenant; the returned map holds
	// per-tenant failures.
	MineAll(ctx context.Context, tenantIDs []string) map[string]error
}

// TenantLister enumerates tenants with transaction data.
type TenantLister interface {
	ListTenants(ctx context.Context) ([]string, error)
}

// MiningServiceConfig holds scheduler configuration.
type MiningServiceConfig struct {
	// MineOnStartup triggers a full mining pass when the service starts.
	MineOnStartup bool

	// Interval is the time between scheduled passes.
	Interval time.Duration

	// RunTimeout bounds one full pass across all tenants.
	RunTimeout time.Duration
}

// MiningService runs the periodic per-tenant mining loop under suture
// supervision.
type MiningService struct {
	engine  MiningEngine
	tenants TenantLister
	config  MiningServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewMiningService creates the mining scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMiningService(engine MiningEngine, tenants TenantLister, cfg MiningServiceConfig, logger zerolog.Logger) *MiningService {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Minute
	}
	return &MiningService{
		engine:  engine,
		tenants: tenants,
		config:  cfg,
		logger:  logger.With().Str("service", "mining").Logger(),
		name:    "mining-service",
	}
}

// Serve implements suture.Service. It runs the scheduled mining loop
// until the context is canceled.
func (s *MiningService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("mine_on_startup", s.config.MineOnStartup).
		Dur("interval", s.config.Interval).
		Msg("mining service starting")

	if s.config.MineOnStartup {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("mining service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes one mining pass across all tenants. Failures are
// logged per tenant and retried on the next tick, never escalated to
// the supervisor.
func (s *MiningService) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	start := time.Now()

	tenantIDs, err := s.tenants.ListTenants(runCtx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("tenant listing failed, skipping pass")
		return
	}
	if len(tenantIDs) == 0 {
		s.logger.Debug().Msg("no tenants with data, skipping pass")
		return
	}

	failures := s.engine.MineAll(runCtx, tenantIDs)
	for tenantID, ferr := range failures {
		s.logger.Warn().Str("tenant_id", tenantID).Err(ferr).Msg("tenant mining failed")
	}

	s.logger.Info().
		Int("tenants", len(tenantIDs)).
		Int("failed", len(failures)).
		Dur("duration", time.Since(start)).
		Msg("mining pass complete")
}

// String returns the service name for supervision logs.
func (s *MiningService) String() string {
	return s.name
}
