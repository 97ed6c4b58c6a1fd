// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/basketwise/basketwise/internal/metrics"
	"github.com/basketwise/basketwise/internal/models"
)

// GetProducts returns the tenant's product catalog sorted by ID.
func (db *DB) GetProducts(ctx context.Context, tenantID string) ([]models.Product, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	products, err := db.getProducts(ctx, tenantID)
	metrics.ObserveDBQuery("select", "products", start, err)
	return products, err
}

func (db *DB) getProducts(ctx context.Context, tenantID string) ([]models.Product, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, tenant_id, name, category, price, stock, features
		FROM products
		WHERE tenant_id = ?
		ORDER BY id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer closeQuietly(rows)

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var category, features sql.NullString
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &category, &p.Price, &p.Stock, &features); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Category = category.String
		if features.Valid && features.String != "" {
			if err := json.Unmarshal([]byte(features.String), &p.Features); err != nil {
				return nil, fmt.Errorf("failed to decode features for product %s: %w", p.ID, err)
			}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// UpsertProducts inserts or updates catalog entries keyed by
// (tenant_id, id).
func (db *DB) UpsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := db.upsertProducts(ctx, products)
	metrics.ObserveDBQuery("upsert", "products", start, err)
	return err
}

func (db *DB) upsertProducts(ctx context.Context, products []models.Product) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, tenant_id, name, category, price, stock, features)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			price = excluded.price,
			stock = excluded.stock,
			features = excluded.features`)
	if err != nil {
		return fmt.Errorf("failed to prepare product upsert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range products {
		p := &products[i]
		var features any
		if len(p.Features) > 0 {
			encoded, err := json.Marshal(p.Features)
			if err != nil {
				return fmt.Errorf("failed to encode features for product %s: %w", p.ID, err)
			}
			features = string(encoded)
		}

		if _, err := stmt.ExecContext(ctx, p.ID, p.TenantID, p.Name, p.Category, p.Price, p.Stock, features); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product batch: %w", err)
	}
	return nil
}

// GetStockSnapshot returns current stock levels by product ID.
func (db *DB) GetStockSnapshot(ctx context.Context, tenantID string) (models.StockSnapshot, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, stock FROM products WHERE tenant_id = ?`, tenantID)
	if err != nil {
		metrics.ObserveDBQuery("select", "products", start, err)
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer closeQuietly(rows)

	snapshot := make(models.StockSnapshot)
	for rows.Next() {
		var id string
		var stock int
		if err := rows.Scan(&id, &stock); err != nil {
			metrics.ObserveDBQuery("select", "products", start, err)
			return nil, fmt.Errorf("failed to scan stock level: %w", err)
		}
		snapshot[id] = stock
	}
	if err := rows.Err(); err != nil {
		metrics.ObserveDBQuery("select", "products", start, err)
		return nil, fmt.Errorf("failed to iterate stock levels: %w", err)
	}

	metrics.ObserveDBQuery("select", "products", start, nil)
	return snapshot, nil
}
