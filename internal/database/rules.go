// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package database

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/basketwise/basketwise/internal/basket"
	"github.com/basketwise/basketwise/internal/metrics"
)

// GetRules returns the tenant's persisted association rules, sorted
// by lift descending with mined order breaking ties.
func (db *DB) GetRules(ctx context.Context, tenantID string) ([]basket.AssociationRule, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rules, err := db.getRules(ctx, tenantID)
	metrics.ObserveDBQuery("select", "association_rules", start, err)
	return rules, err
}

func (db *DB) getRules(ctx context.Context, tenantID string) ([]basket.AssociationRule, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT antecedent, consequent, support, confidence, lift
		FROM association_rules
		WHERE tenant_id = ?
		ORDER BY lift DESC, rowid`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer closeQuietly(rows)

	var rules []basket.AssociationRule
	for rows.Next() {
		var r basket.AssociationRule
		var antecedent, consequent string
		if err := rows.Scan(&antecedent, &consequent, &r.Support, &r.Confidence, &r.Lift); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		if err := json.Unmarshal([]byte(antecedent), &r.Antecedent); err != nil {
			return nil, fmt.Errorf("failed to decode antecedent: %w", err)
		}
		if err := json.Unmarshal([]byte(consequent), &r.Consequent); err != nil {
			return nil, fmt.Errorf("failed to decode consequent: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}

	return rules, nil
}

// ReplaceRules atomically replaces the tenant's rule set. The delete
// and inserts run in one transaction so a failed recompute leaves the
// previous set intact.
func (db *DB) ReplaceRules(ctx context.Context, tenantID string, rules []basket.AssociationRule) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := db.replaceRules(ctx, tenantID, rules)
	metrics.ObserveDBQuery("replace", "association_rules", start, err)
	return err
}

func (db *DB) replaceRules(ctx context.Context, tenantID string, rules []basket.AssociationRule) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM association_rules WHERE tenant_id = ?`, tenantID); err != nil {
		return fmt.Errorf("failed to delete existing rules: %w", err)
	}

	if len(rules) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO association_rules
				(id, tenant_id, antecedent, consequent, support, confidence, lift, mined_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare rule insert: %w", err)
		}
		defer closeQuietly(stmt)

		minedAt := time.Now().UTC()
		for i := range rules {
			r := &rules[i]
			antecedent, err := json.Marshal(r.Antecedent)
			if err != nil {
				return fmt.Errorf("failed to encode antecedent: %w", err)
			}
			consequent, err := json.Marshal(r.Consequent)
			if err != nil {
				return fmt.Errorf("failed to encode consequent: %w", err)
			}

			if _, err := stmt.ExecContext(ctx,
				uuid.New().String(), tenantID,
				string(antecedent), string(consequent),
				r.Support, r.Confidence, r.Lift, minedAt); err != nil {
				return fmt.Errorf("failed to insert rule: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rule replacement: %w", err)
	}
	return nil
}
