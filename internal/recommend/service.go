// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/basketwise/basketwise/internal/basket"
	"github.com/basketwise/basketwise/internal/models"
)

// ServiceConfig holds tunables for the recommendation service.
type ServiceConfig struct {
	// DefaultLimit is the result count used when a caller passes a
	// non-positive limit.
	// Default: 5.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps the caller-supplied result count.
	// Default: 50.
	MaxLimit int `json:"max_limit"`

	// BreakerFailureThreshold is the consecutive data-fetch failures
	// before the circuit opens.
	// Default: 5.
	BreakerFailureThreshold uint32 `json:"breaker_failure_threshold"`

	// BreakerTimeout is how long the circuit stays open before
	// probing again.
	// Default: 30s.
	BreakerTimeout time.Duration `json:"breaker_timeout"`
}

// DefaultServiceConfig returns production defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DefaultLimit:            5,
		MaxLimit:                50,
		BreakerFailureThreshold: 5,
		BreakerTimeout:          30 * time.Second,
	}
}

// Service coordinates the recommendation strategies over a
// DataProvider. All operations degrade to empty results when the
// provider fails or the circuit breaker is open; recommendations are
// advisory and never surface upstream failures to the caller.
type Service struct {
	provider DataProvider
	config   ServiceConfig
	breaker  *gobreaker.CircuitBreaker[any]
	logger   zerolog.Logger
}

// NewService creates a recommendation service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(provider DataProvider, cfg ServiceConfig, logger zerolog.Logger) *Service {
	if cfg.DefaultLimit < 1 {
		cfg.DefaultLimit = 5
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = 50
	}
	if cfg.BreakerFailureThreshold < 1 {
		cfg.BreakerFailureThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	svcLogger := logger.With().Str("component", "recommend").Logger()

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "recommend-data",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			svcLogger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Service{
		provider: provider,
		config:   cfg,
		breaker:  breaker,
		logger:   svcLogger,
	}
}

// clampLimit applies the default and maximum result counts.
func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.config.DefaultLimit
	}
	if limit > s.config.MaxLimit {
		return s.config.MaxLimit
	}
	return limit
}

// fetch runs one provider call through the circuit breaker.
func fetch[T any](s *Service, op string, tenantID string, call func() (T, error)) (T, bool) {
	result, err := s.breaker.Execute(func() (any, error) {
		return call()
	})
	if err != nil {
		s.logger.Warn().
			Str("operation", op).
			Str("tenant_id", tenantID).
			Err(err).
			Msg("data fetch failed, returning empty result")
		var zero T
		return zero, false
	}

	value, ok := result.(T)
	return value, ok
}

// Collaborative returns collaborative-filtering recommendations for a
// customer.
func (s *Service) Collaborative(ctx context.Context, tenantID, customerID string, limit int) []models.Product {
	limit = s.clampLimit(limit)

	txns, ok := fetch(s, "collaborative", tenantID, func() ([]models.Transaction, error) {
		return s.provider.GetTransactions(ctx, tenantID)
	})
	if !ok {
		return []models.Product{}
	}

	catalog, ok := fetch(s, "collaborative", tenantID, func() ([]models.Product, error) {
		return s.provider.GetProducts(ctx, tenantID)
	})
	if !ok {
		return []models.Product{}
	}

	recs := CollaborativeFilter(customerID, txns, catalog, limit)
	if recs == nil {
		recs = []models.Product{}
	}
	return recs
}

// ContentBased returns products similar to the reference product.
func (s *Service) ContentBased(ctx context.Context, tenantID, productID string, limit int) []models.Product {
	limit = s.clampLimit(limit)

	catalog, ok := fetch(s, "content", tenantID, func() ([]models.Product, error) {
		return s.provider.GetProducts(ctx, tenantID)
	})
	if !ok {
		return []models.Product{}
	}

	recs := ContentFilter(productID, catalog, limit)
	if recs == nil {
		recs = []models.Product{}
	}
	return recs
}

// Bundles returns product bundles synthesized from the tenant's
// strongest rules.
func (s *Service) Bundles(ctx context.Context, tenantID string, topN int) []Bundle {
	topN = s.clampLimit(topN)

	rules, ok := fetch(s, "bundles", tenantID, func() ([]basket.AssociationRule, error) {
		return s.provider.GetRules(ctx, tenantID)
	})
	if !ok {
		return []Bundle{}
	}

	bundles := SynthesizeBundles(rules, topN)
	if bundles == nil {
		bundles = []Bundle{}
	}
	return bundles
}

// CrossSellFor returns basket-completion suggestions for the given
// basket contents.
func (s *Service) CrossSellFor(ctx context.Context, tenantID string, basketIDs []string) []CrossSellSuggestion {
	rules, ok := fetch(s, "cross_sell", tenantID, func() ([]basket.AssociationRule, error) {
		return s.provider.GetRules(ctx, tenantID)
	})
	if !ok {
		return []CrossSellSuggestion{}
	}

	suggestions := CrossSell(rules, basketIDs)
	if suggestions == nil {
		suggestions = []CrossSellSuggestion{}
	}
	return suggestions
}

// Inventory returns stock recommendations for the tenant.
func (s *Service) Inventory(ctx context.Context, tenantID string) []StockRecommendation {
	rules, ok := fetch(s, "inventory", tenantID, func() ([]basket.AssociationRule, error) {
		return s.provider.GetRules(ctx, tenantID)
	})
	if !ok {
		return []StockRecommendation{}
	}

	stock, ok := fetch(s, "inventory", tenantID, func() (models.StockSnapshot, error) {
		return s.provider.GetStockSnapshot(ctx, tenantID)
	})
	if !ok {
		return []StockRecommendation{}
	}

	recs := OptimizeInventory(rules, stock)
	if recs == nil {
		recs = []StockRecommendation{}
	}
	return recs
}

// BreakerState reports the circuit breaker state for health
// reporting.
func (s *Service) BreakerState() string {
	return s.breaker.State().String()
}
