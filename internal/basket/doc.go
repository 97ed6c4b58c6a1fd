// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

// Package basket implements the market basket analysis core: an
// Apriori-style frequent-itemset miner and an association-rule
// generator with support/confidence/lift scoring.
//
// # Pipeline
//
// A mining run for one tenant is a synchronous batch computation:
//
//	transactions -> frequent itemsets -> scored rules -> rule store
//
// The Engine coordinates the pipeline and fully replaces the tenant's
// persisted rule set on every successful run. There is no incremental
// update; stale rules cannot accumulate.
//
// # Determinism
//
// Itemsets are keyed by their sorted member set, so mining the same
// transaction set twice yields the same itemsets regardless of input
// order. Rule output is sorted by lift descending with a stable
// tie-break on generation order.
//
// # Thread Safety
//
// The miner and rule generator are pure computations over their
// inputs and hold no shared state. Runs for different tenants are
// independent and may execute concurrently.
//
// # Usage
//
//	engine := basket.NewEngine(cfg, source, store, logger)
//	result, err := engine.Mine(ctx, tenantID)
package basket
