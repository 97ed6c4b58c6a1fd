// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

// Package main is the entry point for the Basketwise server.
//
// Basketwise mines retail transaction logs for frequent itemsets and
// association rules, and serves recommendations derived from them:
// collaborative filtering, content-based filtering, bundle synthesis,
// cross-sell suggestions, and inventory optimization.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML, env)
//  2. Logging: zerolog, configured level and format
//  3. Database: DuckDB with the retail schema
//  4. Engines: the mining engine and the recommendation service
//  5. Supervisor tree: scheduled mining (data layer), HTTP (api layer)
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: in-flight requests get
// the configured timeout, the mining loop stops at the next check, and
// the database is closed last.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/basketwise/basketwise/internal/api"
	"github.com/basketwise/basketwise/internal/basket"
	"github.com/basketwise/basketwise/internal/config"
	"github.com/basketwise/basketwise/internal/database"
	"github.com/basketwise/basketwise/internal/logging"
	"github.com/basketwise/basketwise/internal/recommend"
	"github.com/basketwise/basketwise/internal/supervisor"
	"github.com/basketwise/basketwise/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Float64("min_support", cfg.Mining.MinSupport).
		Dur("mining_interval", cfg.Mining.Interval).
		Msg("Starting Basketwise")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	engine, recommender, err := buildEngines(cfg, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build engines")
	}

	handler := api.NewHandler(db, engine, recommender)
	router := api.NewRouter(handler, &cfg.API)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddDataService(services.NewMiningService(engine, db, services.MiningServiceConfig{
		MineOnStartup: cfg.Mining.MineOnStartup,
		Interval:      cfg.Mining.Interval,
	}, logging.Logger()))

	tree.AddAPIService(services.NewHTTPService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Stopped gracefully")
}

// buildEngines constructs the mining engine and the recommendation
// service from configuration.
func buildEngines(cfg *config.Config, db *database.DB) (*basket.Engine, *recommend.Service, error) {
	miningCfg := &basket.Config{
		MinSupport:        cfg.Mining.MinSupport,
		MinConfidence:     cfg.Mining.MinConfidence,
		MinLift:           cfg.Mining.MinLift,
		MaxItemsetSize:    3,
		ParallelThreshold: cfg.Mining.ParallelThreshold,
		CountWorkers:      cfg.Mining.CountWorkers,
		MaxTenantWorkers:  cfg.Mining.MaxTenantWorkers,
	}

	engine, err := basket.NewEngine(miningCfg, db, db, logging.Logger())
	if err != nil {
		return nil, nil, fmt.Errorf("mining engine: %w", err)
	}

	recommender := recommend.NewService(db, recommend.ServiceConfig{
		DefaultLimit:            cfg.Recommend.DefaultLimit,
		MaxLimit:                cfg.Recommend.MaxLimit,
		BreakerFailureThreshold: uint32(cfg.Recommend.BreakerFailureThreshold),
		BreakerTimeout:          cfg.Recommend.BreakerTimeout,
	}, logging.Logger())

	return engine, recommender, nil
}
