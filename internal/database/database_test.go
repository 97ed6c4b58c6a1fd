// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package database

import (
	"context"
	"testing"
	"time"

	"github.com/basketwise/basketwise/internal/basket"
	"github.com/basketwise/basketwise/internal/config"
	"github.com/basketwise/basketwise/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}

func TestInsertAndGetTransactions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	txns := []models.Transaction{
		{
			TenantID:   "shop-1",
			CustomerID: "cust-1",
			Total:      12.50,
			CreatedAt:  base,
			Items: []models.LineItem{
				{ProductID: "bread", Quantity: 1, Price: 2.50},
				{ProductID: "butter", Quantity: 2, Price: 5.00},
			},
		},
		{
			TenantID:   "shop-1",
			CustomerID: "cust-2",
			Total:      3.00,
			CreatedAt:  base.Add(time.Hour),
			Items: []models.LineItem{
				{ProductID: "milk", Quantity: 1, Price: 3.00},
			},
		},
	}

	if err := db.InsertTransactions(ctx, txns); err != nil {
		t.Fatalf("InsertTransactions() error: %v", err)
	}

	got, err := db.GetTransactions(ctx, "shop-1")
	if err != nil {
		t.Fatalf("GetTransactions() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}

	// Oldest first.
	if got[0].CustomerID != "cust-1" || got[1].CustomerID != "cust-2" {
		t.Errorf("transaction order = [%s, %s], want [cust-1, cust-2]",
			got[0].CustomerID, got[1].CustomerID)
	}
	if len(got[0].Items) != 2 {
		t.Errorf("first transaction has %d items, want 2", len(got[0].Items))
	}
	if got[0].ID == "" {
		t.Error("transaction ID was not assigned")
	}
	if got[0].Items[0].ProductID != "bread" {
		t.Errorf("first item = %q, want bread", got[0].Items[0].ProductID)
	}
}

func TestGetTransactionsEmptyTenant(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.GetTransactions(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetTransactions() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d transactions for unknown tenant, want 0", len(got))
	}
}

func TestTransactionsAreTenantScoped(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	txns := []models.Transaction{
		{TenantID: "shop-a", CustomerID: "c1", Items: []models.LineItem{{ProductID: "x", Quantity: 1}}},
		{TenantID: "shop-b", CustomerID: "c2", Items: []models.LineItem{{ProductID: "y", Quantity: 1}}},
	}
	if err := db.InsertTransactions(ctx, txns); err != nil {
		t.Fatalf("InsertTransactions() error: %v", err)
	}

	got, err := db.GetTransactions(ctx, "shop-a")
	if err != nil {
		t.Fatalf("GetTransactions() error: %v", err)
	}
	if len(got) != 1 || got[0].CustomerID != "c1" {
		t.Errorf("tenant shop-a got %d transactions, want 1 for c1", len(got))
	}
}

func TestUpsertAndGetProducts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	products := []models.Product{
		{ID: "p1", TenantID: "shop-1", Name: "Espresso Beans", Category: "coffee",
			Price: 14.00, Stock: 30, Features: []string{"organic", "dark-roast"}},
		{ID: "p2", TenantID: "shop-1", Name: "Filter Papers", Category: "accessories",
			Price: 4.50, Stock: 120},
	}
	if err := db.UpsertProducts(ctx, products); err != nil {
		t.Fatalf("UpsertProducts() error: %v", err)
	}

	got, err := db.GetProducts(ctx, "shop-1")
	if err != nil {
		t.Fatalf("GetProducts() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].ID != "p1" || got[1].ID != "p2" {
		t.Errorf("product order = [%s, %s], want [p1, p2]", got[0].ID, got[1].ID)
	}
	if len(got[0].Features) != 2 || got[0].Features[0] != "organic" {
		t.Errorf("p1 features = %v, want [organic dark-roast]", got[0].Features)
	}
	if got[1].Features != nil {
		t.Errorf("p2 features = %v, want nil", got[1].Features)
	}

	// Upsert overwrites the existing row.
	products[0].Stock = 5
	products[0].Price = 15.00
	if err := db.UpsertProducts(ctx, products[:1]); err != nil {
		t.Fatalf("UpsertProducts() update error: %v", err)
	}

	got, err = db.GetProducts(ctx, "shop-1")
	if err != nil {
		t.Fatalf("GetProducts() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products after update, want 2", len(got))
	}
	if got[0].Stock != 5 || got[0].Price != 15.00 {
		t.Errorf("p1 after update = stock %d price %.2f, want stock 5 price 15.00",
			got[0].Stock, got[0].Price)
	}
}

func TestGetStockSnapshot(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	products := []models.Product{
		{ID: "p1", TenantID: "shop-1", Name: "A", Stock: 10},
		{ID: "p2", TenantID: "shop-1", Name: "B", Stock: 0},
		{ID: "p3", TenantID: "shop-2", Name: "C", Stock: 99},
	}
	if err := db.UpsertProducts(ctx, products); err != nil {
		t.Fatalf("UpsertProducts() error: %v", err)
	}

	snapshot, err := db.GetStockSnapshot(ctx, "shop-1")
	if err != nil {
		t.Fatalf("GetStockSnapshot() error: %v", err)
	}
	if len(snapshot) != 2 {
		t.Fatalf("snapshot has %d entries, want 2", len(snapshot))
	}
	if snapshot.Level("p1") != 10 {
		t.Errorf("p1 stock = %d, want 10", snapshot.Level("p1"))
	}
	if snapshot.Level("p3") != 0 {
		t.Errorf("p3 leaked across tenants: stock = %d, want 0", snapshot.Level("p3"))
	}
}

func TestReplaceRulesRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := []basket.AssociationRule{
		{Antecedent: []string{"bread"}, Consequent: []string{"butter"},
			Support: 0.4, Confidence: 0.8, Lift: 2.0},
		{Antecedent: []string{"milk"}, Consequent: []string{"cereal"},
			Support: 0.3, Confidence: 0.6, Lift: 3.0},
	}
	if err := db.ReplaceRules(ctx, "shop-1", first); err != nil {
		t.Fatalf("ReplaceRules() error: %v", err)
	}

	got, err := db.GetRules(ctx, "shop-1")
	if err != nil {
		t.Fatalf("GetRules() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rules, want 2", len(got))
	}

	// Lift descending.
	if got[0].Lift != 3.0 || got[1].Lift != 2.0 {
		t.Errorf("rule lift order = [%.1f, %.1f], want [3.0, 2.0]", got[0].Lift, got[1].Lift)
	}
	if got[0].Antecedent[0] != "milk" || got[0].Consequent[0] != "cereal" {
		t.Errorf("top rule = %v => %v, want [milk] => [cereal]",
			got[0].Antecedent, got[0].Consequent)
	}

	// Second replacement wipes the first set entirely.
	second := []basket.AssociationRule{
		{Antecedent: []string{"tea"}, Consequent: []string{"honey"},
			Support: 0.2, Confidence: 0.5, Lift: 1.5},
	}
	if err := db.ReplaceRules(ctx, "shop-1", second); err != nil {
		t.Fatalf("ReplaceRules() second error: %v", err)
	}

	got, err = db.GetRules(ctx, "shop-1")
	if err != nil {
		t.Fatalf("GetRules() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rules after replacement, want 1", len(got))
	}
	if got[0].Antecedent[0] != "tea" {
		t.Errorf("remaining rule antecedent = %v, want [tea]", got[0].Antecedent)
	}
}

func TestReplaceRulesWithEmptySet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	rules := []basket.AssociationRule{
		{Antecedent: []string{"a"}, Consequent: []string{"b"},
			Support: 0.5, Confidence: 0.9, Lift: 1.8},
	}
	if err := db.ReplaceRules(ctx, "shop-1", rules); err != nil {
		t.Fatalf("ReplaceRules() error: %v", err)
	}

	// Replacing with no rules clears the tenant.
	if err := db.ReplaceRules(ctx, "shop-1", nil); err != nil {
		t.Fatalf("ReplaceRules(nil) error: %v", err)
	}

	got, err := db.GetRules(ctx, "shop-1")
	if err != nil {
		t.Fatalf("GetRules() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d rules after clearing, want 0", len(got))
	}
}

func TestListTenants(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	txns := []models.Transaction{
		{TenantID: "zeta", CustomerID: "c1"},
		{TenantID: "alpha", CustomerID: "c2"},
		{TenantID: "alpha", CustomerID: "c3"},
	}
	if err := db.InsertTransactions(ctx, txns); err != nil {
		t.Fatalf("InsertTransactions() error: %v", err)
	}

	tenants, err := db.ListTenants(ctx)
	if err != nil {
		t.Fatalf("ListTenants() error: %v", err)
	}
	if len(tenants) != 2 {
		t.Fatalf("got %d tenants, want 2", len(tenants))
	}
	if tenants[0] != "alpha" || tenants[1] != "zeta" {
		t.Errorf("tenants = %v, want [alpha zeta]", tenants)
	}
}
