// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package models

import "time"

// LineItem is a single purchased line within a transaction.
type LineItem struct {
	// ProductID is the catalog identifier of the purchased product.
	ProductID string `json:"product_id"`

	// Quantity is the number of units purchased.
	Quantity int `json:"quantity"`

	// Price is the unit price at time of sale.
	Price float64 `json:"price"`
}

// Transaction is a completed checkout for one customer.
// Transactions are immutable once recorded; the miner only reads them.
type Transaction struct {
	// ID is the transaction identifier.
	ID string `json:"id"`

	// TenantID scopes the transaction to a single tenant.
	TenantID string `json:"tenant_id"`

	// CustomerID identifies the purchasing customer.
	CustomerID string `json:"customer_id"`

	// Items is the ordered sequence of purchased line items.
	Items []LineItem `json:"items"`

	// Total is the transaction total amount.
	Total float64 `json:"total"`

	// CreatedAt is when the transaction was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// ItemSet returns the distinct product IDs in the transaction.
// Quantity is ignored: itemset mining counts transactions containing a
// product, not units sold.
func (t *Transaction) ItemSet() map[string]struct{} {
	set := make(map[string]struct{}, len(t.Items))
	for _, li := range t.Items {
		set[li.ProductID] = struct{}{}
	}
	return set
}

// Product is a catalog entry. Read-only input to content-based
// filtering and inventory optimization.
type Product struct {
	// ID is the product identifier.
	ID string `json:"id"`

	// TenantID scopes the product to a single tenant.
	TenantID string `json:"tenant_id"`

	// Name is the display name.
	Name string `json:"name"`

	// Category is the catalog category (e.g. "beverages").
	Category string `json:"category"`

	// Price is the current unit price.
	Price float64 `json:"price"`

	// Stock is the current stock level.
	Stock int `json:"stock"`

	// Features is the free-text feature tag list.
	Features []string `json:"features,omitempty"`
}

// FeatureSet returns the product's feature tags as a set.
func (p *Product) FeatureSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Features))
	for _, f := range p.Features {
		set[f] = struct{}{}
	}
	return set
}

// StockSnapshot maps product IDs to current stock levels.
// Missing products are treated as zero stock.
type StockSnapshot map[string]int

// Level returns the stock level for a product, zero when unknown.
func (s StockSnapshot) Level(productID string) int {
	return s[productID]
}
