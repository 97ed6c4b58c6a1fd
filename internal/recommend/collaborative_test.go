// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package recommend

import (
	"testing"

	"github.com/basketwise/basketwise/internal/models"
)

func custTxn(customerID string, products ...string) models.Transaction {
	items := make([]models.LineItem, 0, len(products))
	for _, p := range products {
		items = append(items, models.LineItem{ProductID: p, Quantity: 1})
	}
	return models.Transaction{CustomerID: customerID, Items: items}
}

func catalogOf(ids ...string) []models.Product {
	catalog := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		catalog = append(catalog, models.Product{ID: id, Name: "product " + id})
	}
	return catalog
}

func productIDs(products []models.Product) []string {
	ids := make([]string, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}
	return ids
}

func equalIDs(got []models.Product, want []string) bool {
	gotIDs := productIDs(got)
	if len(gotIDs) != len(want) {
		return false
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			return false
		}
	}
	return true
}

func TestCollaborativeFilter(t *testing.T) {
	txns := []models.Transaction{
		custTxn("alice", "bread", "milk"),
		custTxn("bob", "bread", "milk", "butter"),
		custTxn("carol", "bread", "jam"),
	}
	catalog := catalogOf("bread", "milk", "butter", "jam")

	got := CollaborativeFilter("alice", txns, catalog, 5)

	// Bob shares two items, Carol one; butter outscores jam.
	if !equalIDs(got, []string{"butter", "jam"}) {
		t.Errorf("recommendations = %v, want [butter jam]", productIDs(got))
	}
}

func TestCollaborativeFilterExcludesOwnedItems(t *testing.T) {
	txns := []models.Transaction{
		custTxn("alice", "bread"),
		custTxn("bob", "bread", "milk"),
	}
	got := CollaborativeFilter("alice", txns, catalogOf("bread", "milk"), 5)

	for i := range got {
		if got[i].ID == "bread" {
			t.Error("recommended a product the customer already owns")
		}
	}
	if !equalIDs(got, []string{"milk"}) {
		t.Errorf("recommendations = %v, want [milk]", productIDs(got))
	}
}

func TestCollaborativeFilterUnknownCustomer(t *testing.T) {
	txns := []models.Transaction{custTxn("bob", "bread")}

	if got := CollaborativeFilter("ghost", txns, catalogOf("bread"), 5); got != nil {
		t.Errorf("recommendations for unknown customer = %v, want nil", productIDs(got))
	}
}

func TestCollaborativeFilterRepeatBuyerRanksHigher(t *testing.T) {
	// Dave overlaps with Alice in two separate transactions, Carol in
	// one; Dave's vote should carry more weight.
	txns := []models.Transaction{
		custTxn("alice", "bread"),
		custTxn("carol", "bread", "jam"),
		custTxn("dave", "bread", "butter"),
		custTxn("dave", "bread"),
	}
	got := CollaborativeFilter("alice", txns, catalogOf("bread", "jam", "butter"), 5)

	if !equalIDs(got, []string{"butter", "jam"}) {
		t.Errorf("recommendations = %v, want [butter jam]", productIDs(got))
	}
}

func TestCollaborativeFilterDeduplicatesWithinTransaction(t *testing.T) {
	// A duplicated line item must not double a customer's similarity.
	txns := []models.Transaction{
		custTxn("alice", "bread"),
		custTxn("bob", "bread", "bread", "jam"),
		custTxn("carol", "bread", "milk", "butter"),
		custTxn("carol", "milk"),
	}
	got := CollaborativeFilter("alice", txns, catalogOf("bread", "jam", "milk", "butter"), 1)

	// Bob and Carol tie at similarity 1; Bob was discovered first, so
	// jam wins the single slot.
	if !equalIDs(got, []string{"jam"}) {
		t.Errorf("recommendations = %v, want [jam]", productIDs(got))
	}
}

func TestCollaborativeFilterLimit(t *testing.T) {
	txns := []models.Transaction{
		custTxn("alice", "bread"),
		custTxn("bob", "bread", "milk", "butter", "jam"),
	}
	catalog := catalogOf("bread", "milk", "butter", "jam")

	if got := CollaborativeFilter("alice", txns, catalog, 2); len(got) != 2 {
		t.Errorf("got %d recommendations, want 2", len(got))
	}
	if got := CollaborativeFilter("alice", txns, catalog, 0); got != nil {
		t.Errorf("recommendations with zero limit = %v, want nil", productIDs(got))
	}
}

func TestCollaborativeFilterDropsUncatalogedProducts(t *testing.T) {
	txns := []models.Transaction{
		custTxn("alice", "bread"),
		custTxn("bob", "bread", "discontinued"),
	}
	if got := CollaborativeFilter("alice", txns, catalogOf("bread"), 5); len(got) != 0 {
		t.Errorf("recommendations = %v, want none", productIDs(got))
	}
}
