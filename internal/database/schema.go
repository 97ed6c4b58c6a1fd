// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core tables and indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			total DOUBLE NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS transaction_items (
			transaction_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			price DOUBLE NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			id TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT,
			price DOUBLE NOT NULL DEFAULT 0,
			stock INTEGER NOT NULL DEFAULT 0,
			features TEXT,
			PRIMARY KEY (tenant_id, id)
		)`,

		// Mined rules. Antecedent and consequent are JSON-encoded
		// string arrays. The full tenant set is replaced on every
		// recompute.
		`CREATE TABLE IF NOT EXISTS association_rules (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			antecedent TEXT NOT NULL,
			consequent TEXT NOT NULL,
			support DOUBLE NOT NULL,
			confidence DOUBLE NOT NULL,
			lift DOUBLE NOT NULL,
			mined_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_tenant
			ON transactions(tenant_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_transaction_items_txn
			ON transaction_items(transaction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rules_tenant_lift
			ON association_rules(tenant_id, lift)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}
