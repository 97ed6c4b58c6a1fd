// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package basket

import "fmt"

// Config contains the tunables for a mining run.
type Config struct {
	// MinSupport is the minimum fraction of transactions an itemset
	// must appear in to be considered frequent. Taken literally: zero
	// accepts every item.
	// Default: 0.01.
	MinSupport float64 `json:"min_support"`

	// MinConfidence is the minimum confidence for an emitted rule.
	// Default: 0.3.
	MinConfidence float64 `json:"min_confidence"`

	// MinLift is the minimum lift for an emitted rule.
	// Default: 1.0.
	MinLift float64 `json:"min_lift"`

	// MaxItemsetSize caps the level-wise expansion. The cap bounds
	// worst-case candidate blow-up, it is not a precision target.
	// Default: 3.
	MaxItemsetSize int `json:"max_itemset_size"`

	// ParallelThreshold is the transaction count above which candidate
	// counting is partitioned across workers. Zero disables parallel
	// counting.
	// Default: 5000.
	ParallelThreshold int `json:"parallel_threshold"`

	// CountWorkers is the number of partitions for parallel counting.
	// Default: 4.
	CountWorkers int `json:"count_workers"`

	// MaxTenantWorkers bounds concurrent tenant mining runs in MineAll.
	// Default: 4.
	MaxTenantWorkers int `json:"max_tenant_workers"`
}

// DefaultConfig returns mining defaults. The low thresholds keep
// mining degrading gracefully on sparse data instead of erroring.
func DefaultConfig() *Config {
	return &Config{
		MinSupport:        0.01,
		MinConfidence:     0.3,
		MinLift:           1.0,
		MaxItemsetSize:    3,
		ParallelThreshold: 5000,
		CountWorkers:      4,
		MaxTenantWorkers:  4,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MinSupport <= 0 || c.MinSupport > 1 {
		return fmt.Errorf("min_support must be in (0, 1], got %f", c.MinSupport)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0, 1], got %f", c.MinConfidence)
	}
	if c.MinLift < 0 {
		return fmt.Errorf("min_lift must be non-negative, got %f", c.MinLift)
	}
	if c.MaxItemsetSize < 1 {
		return fmt.Errorf("max_itemset_size must be positive, got %d", c.MaxItemsetSize)
	}
	if c.ParallelThreshold < 0 {
		return fmt.Errorf("parallel_threshold must be non-negative, got %d", c.ParallelThreshold)
	}
	if c.CountWorkers < 1 {
		return fmt.Errorf("count_workers must be positive, got %d", c.CountWorkers)
	}
	if c.MaxTenantWorkers < 1 {
		return fmt.Errorf("max_tenant_workers must be positive, got %d", c.MaxTenantWorkers)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
