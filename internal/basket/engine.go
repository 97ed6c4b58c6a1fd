// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package basket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/basketwise/basketwise/internal/metrics"
	"github.com/basketwise/basketwise/internal/models"
)

// TransactionSource fetches a tenant's transactions for mining.
// Implemented by the database layer.
type TransactionSource interface {
	// GetTransactions returns all transactions for the tenant.
	GetTransactions(ctx context.Context, tenantID string) ([]models.Transaction, error)
}

// RuleStore persists mined rules. Implemented by the database layer.
type RuleStore interface {
	// ReplaceRules atomically replaces the tenant's rule set with the
	// given rules. Delete-then-insert, never merge.
	ReplaceRules(ctx context.Context, tenantID string, rules []AssociationRule) error
}

// Result summarizes one mining run.
type Result struct {
	// TenantID is the tenant the run was for.
	TenantID string `json:"tenant_id"`

	// TransactionCount is the number of transactions mined.
	TransactionCount int `json:"transaction_count"`

	// ItemsetCount is the number of frequent itemsets found.
	ItemsetCount int `json:"itemset_count"`

	// RuleCount is the number of rules emitted.
	RuleCount int `json:"rule_count"`

	// Rules is the emitted rule set, sorted by lift descending.
	Rules []AssociationRule `json:"rules"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"-"`

	// CompletedAt is when the run finished.
	CompletedAt time.Time `json:"completed_at"`
}

// Engine runs the mining pipeline per tenant: fetch transactions,
// mine frequent itemsets, generate rules, replace the persisted rule
// set. Safe for concurrent use; runs share no mutable state.
type Engine struct {
	config *Config
	miner  *Miner
	source TransactionSource
	store  RuleStore
	logger zerolog.Logger
}

// NewEngine creates a mining engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source TransactionSource, store RuleStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		miner:  NewMiner(cfg),
		source: source,
		store:  store,
		logger: logger.With().Str("component", "basket").Logger(),
	}, nil
}

// Mine executes one full mining run for a tenant. An empty transaction
// set is a successful run emitting zero rules; the persisted rule set
// is still replaced so prior rules do not linger.
func (e *Engine) Mine(ctx context.Context, tenantID string) (*Result, error) {
	start := time.Now()
	logger := e.logger.With().Str("tenant_id", tenantID).Logger()
	logger.Debug().Msg("starting mining run")

	txns, err := e.source.GetTransactions(ctx, tenantID)
	if err != nil {
		metrics.MiningRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("get transactions: %w", err)
	}

	index, err := e.miner.FrequentItemsets(ctx, txns, e.config.MinSupport)
	if err != nil {
		metrics.MiningRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("mine itemsets: %w", err)
	}

	rules := GenerateRules(index, e.config.MinConfidence, e.config.MinLift)

	if e.store != nil {
		if err := e.store.ReplaceRules(ctx, tenantID, rules); err != nil {
			metrics.MiningRunsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("replace rules: %w", err)
		}
	}

	result := &Result{
		TenantID:         tenantID,
		TransactionCount: len(txns),
		ItemsetCount:     len(index),
		RuleCount:        len(rules),
		Rules:            rules,
		Duration:         time.Since(start),
		CompletedAt:      time.Now(),
	}

	metrics.MiningRunsTotal.WithLabelValues("success").Inc()
	metrics.MiningDuration.Observe(result.Duration.Seconds())
	metrics.FrequentItemsets.WithLabelValues(tenantID).Set(float64(result.ItemsetCount))
	metrics.AssociationRules.WithLabelValues(tenantID).Set(float64(result.RuleCount))

	logger.Info().
		Int("transactions", result.TransactionCount).
		Int("itemsets", result.ItemsetCount).
		Int("rules", result.RuleCount).
		Dur("duration", result.Duration).
		Msg("mining run complete")

	return result, nil
}

// MineAll runs mining for every tenant over a bounded worker pool.
// Tenants are partitioned across workers; no itemset state is shared.
// Returns the per-tenant error map; tenants absent from the map
// succeeded.
func (e *Engine) MineAll(ctx context.Context, tenantIDs []string) map[string]error {
	workers := e.config.MaxTenantWorkers
	if workers > len(tenantIDs) {
		workers = len(tenantIDs)
	}
	if workers < 1 {
		return nil
	}

	work := make(chan string)
	var mu sync.Mutex
	failures := make(map[string]error)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tenantID := range work {
				if _, err := e.Mine(ctx, tenantID); err != nil {
					mu.Lock()
					failures[tenantID] = err
					mu.Unlock()
				}
			}
		}()
	}

	for _, tenantID := range tenantIDs {
		if contextCancelled(ctx) {
			mu.Lock()
			failures[tenantID] = ctx.Err()
			mu.Unlock()
			continue
		}
		work <- tenantID
	}
	close(work)
	wg.Wait()

	if len(failures) == 0 {
		return nil
	}
	return failures
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}
