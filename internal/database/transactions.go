// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/basketwise/basketwise/internal/metrics"
	"github.com/basketwise/basketwise/internal/models"
)

// GetTransactions returns all transactions for the tenant with their
// line items, oldest first.
func (db *DB) GetTransactions(ctx context.Context, tenantID string) ([]models.Transaction, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	txns, err := db.getTransactions(ctx, tenantID)
	metrics.ObserveDBQuery("select", "transactions", start, err)
	return txns, err
}

func (db *DB) getTransactions(ctx context.Context, tenantID string) ([]models.Transaction, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, tenant_id, customer_id, total, created_at
		FROM transactions
		WHERE tenant_id = ?
		ORDER BY created_at, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer closeQuietly(rows)

	var txns []models.Transaction
	index := make(map[string]int)
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.TenantID, &t.CustomerID, &t.Total, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		index[t.ID] = len(txns)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	if len(txns) == 0 {
		return txns, nil
	}

	itemRows, err := db.conn.QueryContext(ctx, `
		SELECT i.transaction_id, i.product_id, i.quantity, i.price
		FROM transaction_items i
		JOIN transactions t ON t.id = i.transaction_id
		WHERE t.tenant_id = ?
		ORDER BY i.transaction_id, i.product_id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction items: %w", err)
	}
	defer closeQuietly(itemRows)

	for itemRows.Next() {
		var txnID string
		var item models.LineItem
		if err := itemRows.Scan(&txnID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan transaction item: %w", err)
		}
		if i, ok := index[txnID]; ok {
			txns[i].Items = append(txns[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction items: %w", err)
	}

	return txns, nil
}

// InsertTransactions stores a batch of transactions with their line
// items. Transactions without an ID are assigned one.
func (db *DB) InsertTransactions(ctx context.Context, txns []models.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := db.insertTransactions(ctx, txns)
	metrics.ObserveDBQuery("insert", "transactions", start, err)
	return err
}

func (db *DB) insertTransactions(ctx context.Context, txns []models.Transaction) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	txnStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, tenant_id, customer_id, total, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare transaction insert: %w", err)
	}
	defer closeQuietly(txnStmt)

	itemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transaction_items (transaction_id, product_id, quantity, price)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer closeQuietly(itemStmt)

	for i := range txns {
		t := &txns[i]
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now().UTC()
		}

		if _, err := txnStmt.ExecContext(ctx, t.ID, t.TenantID, t.CustomerID, t.Total, t.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
		for _, item := range t.Items {
			if _, err := itemStmt.ExecContext(ctx, t.ID, item.ProductID, item.Quantity, item.Price); err != nil {
				return fmt.Errorf("failed to insert item %s for transaction %s: %w", item.ProductID, t.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction batch: %w", err)
	}
	return nil
}

// ListTenants returns the distinct tenant IDs with transactions,
// sorted ascending.
func (db *DB) ListTenants(ctx context.Context) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT tenant_id FROM transactions ORDER BY tenant_id`)
	if err != nil {
		metrics.ObserveDBQuery("select", "transactions", start, err)
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer closeQuietly(rows)

	var tenants []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			metrics.ObserveDBQuery("select", "transactions", start, err)
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, id)
	}
	if err := rows.Err(); err != nil {
		metrics.ObserveDBQuery("select", "transactions", start, err)
		return nil, fmt.Errorf("failed to iterate tenants: %w", err)
	}

	metrics.ObserveDBQuery("select", "transactions", start, nil)
	return tenants, nil
}
