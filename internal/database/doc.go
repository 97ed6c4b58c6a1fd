// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

/*
Package database provides the DuckDB-backed data store for transactions,
products, and mined association rules.

# Schema

Four tables, all tenant-scoped:

  - transactions: one row per basket (id, tenant, customer, total, timestamp)
  - transaction_items: line items keyed by transaction id
  - products: the catalog (category, price, stock, JSON feature tags)
  - association_rules: mined rules, replaced wholesale on every recompute

Antecedent, consequent, and feature lists are stored as JSON-encoded
TEXT columns.

# Rule Persistence

ReplaceRules deletes the tenant's existing rules and inserts the new
set inside a single transaction. A recompute never merges with stale
rules, and a failed recompute leaves the previous set intact.

# Concurrency

DB is safe for concurrent use. The connection pool is sized from the
CPU count; DuckDB serializes writes internally.
*/
package database
