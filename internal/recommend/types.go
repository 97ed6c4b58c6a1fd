// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package recommend

import (
	"context"

	"github.com/basketwise/basketwise/internal/basket"
	"github.com/basketwise/basketwise/internal/models"
)

// Bundle is a suggested product bundle synthesized from one
// high-lift, high-confidence association rule.
type Bundle struct {
	// Products is the sorted union of the rule's antecedent and
	// consequent members.
	Products []string `json:"products"`

	// Confidence is the source rule's confidence.
	Confidence float64 `json:"confidence"`

	// Lift is the source rule's lift.
	Lift float64 `json:"lift"`

	// ExpectedUplift is (lift - 1) x 100 formatted as a percentage,
	// e.g. "150.00%".
	ExpectedUplift string `json:"expected_uplift"`
}

// CrossSellSuggestion proposes products to add to an in-progress
// basket, derived from a rule whose antecedent the basket triggers.
type CrossSellSuggestion struct {
	// SuggestedProducts is the rule consequent, none of which are
	// already in the basket.
	SuggestedProducts []string `json:"suggested_products"`

	// BasedOn is the rule antecedent that matched the basket.
	BasedOn []string `json:"based_on"`

	// Confidence is the source rule's confidence.
	Confidence float64 `json:"confidence"`

	// Lift is the source rule's lift.
	Lift float64 `json:"lift"`
}

// StockRecommendation advises raising a product's stock level based on
// expected demand propagated from an associated product.
type StockRecommendation struct {
	// ProductID is the consequent product whose stock is low.
	ProductID string `json:"product_id"`

	// CurrentStock is the product's stock at evaluation time.
	CurrentStock int `json:"current_stock"`

	// RecommendedStock is ceil(antecedent stock x rule confidence).
	RecommendedStock int `json:"recommended_stock"`

	// Reason is a human-readable justification.
	Reason string `json:"reason"`

	// Priority is the source rule's lift; higher means act sooner.
	Priority float64 `json:"priority"`
}

// DataProvider fetches the tenant data the strategies consume.
// Implemented by the database layer.
type DataProvider interface {
	// GetTransactions returns all transactions for the tenant.
	GetTransactions(ctx context.Context, tenantID string) ([]models.Transaction, error)

	// GetProducts returns the tenant's product catalog.
	GetProducts(ctx context.Context, tenantID string) ([]models.Product, error)

	// GetRules returns the tenant's persisted association rules,
	// sorted by lift descending.
	GetRules(ctx context.Context, tenantID string) ([]basket.AssociationRule, error)

	// GetStockSnapshot returns current stock levels by product ID.
	GetStockSnapshot(ctx context.Context, tenantID string) (models.StockSnapshot, error)
}
