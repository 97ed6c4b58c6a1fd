// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package basket

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/basketwise/basketwise/internal/models"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

// txn builds a single-quantity transaction from product IDs.
func txn(id string, products ...string) models.Transaction {
	items := make([]models.LineItem, 0, len(products))
	for _, p := range products {
		items = append(items, models.LineItem{ProductID: p, Quantity: 1})
	}
	return models.Transaction{ID: id, TenantID: "t", CustomerID: "c-" + id, Items: items}
}

func TestFrequentItemsetsScenario(t *testing.T) {
	miner := NewMiner(DefaultConfig())
	txns := []models.Transaction{
		txn("t1", "A", "B"),
		txn("t2", "A", "C"),
		txn("t3", "A", "B", "C"),
	}

	index, err := miner.FrequentItemsets(context.Background(), txns, 0.5)
	if err != nil {
		t.Fatalf("FrequentItemsets() error: %v", err)
	}

	// A, B, C, {A,B}, {A,C} survive; {B,C} and {A,B,C} fall below 0.5.
	if len(index) != 5 {
		t.Fatalf("got %d itemsets, want 5: %v", len(index), index)
	}

	tests := []struct {
		items   []string
		count   int
		support float64
	}{
		{[]string{"A"}, 3, 1.0},
		{[]string{"B"}, 2, 2.0 / 3.0},
		{[]string{"C"}, 2, 2.0 / 3.0},
		{[]string{"A", "B"}, 2, 2.0 / 3.0},
		{[]string{"A", "C"}, 2, 2.0 / 3.0},
	}
	for _, tt := range tests {
		set, ok := index[canonicalKey(tt.items)]
		if !ok {
			t.Errorf("itemset %v missing from index", tt.items)
			continue
		}
		if set.Count != tt.count {
			t.Errorf("itemset %v count = %d, want %d", tt.items, set.Count, tt.count)
		}
		if !almostEqual(set.Support, tt.support) {
			t.Errorf("itemset %v support = %f, want %f", tt.items, set.Support, tt.support)
		}
	}

	if _, ok := index[canonicalKey([]string{"B", "C"})]; ok {
		t.Error("{B,C} is below the support threshold but present")
	}
	if _, ok := index[canonicalKey([]string{"A", "B", "C"})]; ok {
		t.Error("{A,B,C} is below the support threshold but present")
	}
}

func TestFrequentItemsetsEmptyInput(t *testing.T) {
	miner := NewMiner(DefaultConfig())

	index, err := miner.FrequentItemsets(context.Background(), nil, 0.1)
	if err != nil {
		t.Fatalf("FrequentItemsets() error: %v", err)
	}
	if len(index) != 0 {
		t.Errorf("got %d itemsets from empty input, want 0", len(index))
	}
}

func TestFrequentItemsetsDeduplicatesWithinTransaction(t *testing.T) {
	miner := NewMiner(DefaultConfig())
	txns := []models.Transaction{
		{ID: "t1", TenantID: "t", Items: []models.LineItem{
			{ProductID: "A", Quantity: 1},
			{ProductID: "A", Quantity: 3},
			{ProductID: "B", Quantity: 1},
		}},
		txn("t2", "B"),
	}

	index, err := miner.FrequentItemsets(context.Background(), txns, 0.1)
	if err != nil {
		t.Fatalf("FrequentItemsets() error: %v", err)
	}

	set := index[canonicalKey([]string{"A"})]
	if set.Count != 1 {
		t.Errorf("A counted %d times, want 1 (same transaction)", set.Count)
	}
}

func TestFrequentItemsetsSizeCap(t *testing.T) {
	miner := NewMiner(DefaultConfig())

	// Four items always together; the cap stops expansion at size 3.
	var txns []models.Transaction
	for i := 0; i < 4; i++ {
		txns = append(txns, txn(string(rune('a'+i)), "W", "X", "Y", "Z"))
	}

	index, err := miner.FrequentItemsets(context.Background(), txns, 0.5)
	if err != nil {
		t.Fatalf("FrequentItemsets() error: %v", err)
	}

	for _, set := range index {
		if set.Size() > 3 {
			t.Errorf("itemset %v exceeds the size cap", set.Items)
		}
	}
	// All 4 singles, 6 pairs, 4 triples.
	if len(index) != 14 {
		t.Errorf("got %d itemsets, want 14", len(index))
	}
}

func TestFrequentItemsetsDownwardClosure(t *testing.T) {
	miner := NewMiner(DefaultConfig())
	txns := []models.Transaction{
		txn("t1", "A", "B", "C"),
		txn("t2", "A", "B", "C", "D"),
		txn("t3", "A", "B", "D"),
		txn("t4", "B", "C", "E"),
		txn("t5", "A", "C", "E"),
	}

	index, err := miner.FrequentItemsets(context.Background(), txns, 0.3)
	if err != nil {
		t.Fatalf("FrequentItemsets() error: %v", err)
	}

	// Every subset obtained by removing one member must be frequent too.
	for _, set := range index {
		for drop := range set.Items {
			if set.Size() < 2 {
				continue
			}
			subset := make([]string, 0, set.Size()-1)
			for i, item := range set.Items {
				if i != drop {
					subset = append(subset, item)
				}
			}
			sub, ok := index[canonicalKey(subset)]
			if !ok {
				t.Errorf("subset %v of %v missing from index", subset, set.Items)
				continue
			}
			if sub.Support+floatTolerance < set.Support {
				t.Errorf("subset %v support %f below superset %v support %f",
					subset, sub.Support, set.Items, set.Support)
			}
		}
	}
}

func TestFrequentItemsetsMonotonicity(t *testing.T) {
	miner := NewMiner(DefaultConfig())
	txns := []models.Transaction{
		txn("t1", "A", "B"),
		txn("t2", "A", "C"),
		txn("t3", "A", "B", "C"),
		txn("t4", "B", "C"),
	}

	loose, err := miner.FrequentItemsets(context.Background(), txns, 0.25)
	if err != nil {
		t.Fatalf("FrequentItemsets(0.25) error: %v", err)
	}
	strict, err := miner.FrequentItemsets(context.Background(), txns, 0.75)
	if err != nil {
		t.Fatalf("FrequentItemsets(0.75) error: %v", err)
	}

	if len(strict) > len(loose) {
		t.Errorf("strict threshold found %d itemsets, loose found %d", len(strict), len(loose))
	}
	for key := range strict {
		if _, ok := loose[key]; !ok {
			t.Errorf("itemset %q frequent at 0.75 but not at 0.25", key)
		}
	}
}

func TestFrequentItemsetsIdempotent(t *testing.T) {
	miner := NewMiner(DefaultConfig())
	txns := []models.Transaction{
		txn("t1", "A", "B"),
		txn("t2", "A", "C"),
		txn("t3", "A", "B", "C"),
	}

	first, err := miner.FrequentItemsets(context.Background(), txns, 0.5)
	if err != nil {
		t.Fatalf("first run error: %v", err)
	}
	second, err := miner.FrequentItemsets(context.Background(), txns, 0.5)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("run sizes differ: %d vs %d", len(first), len(second))
	}
	for key, set := range first {
		other, ok := second[key]
		if !ok {
			t.Errorf("itemset %q missing from second run", key)
			continue
		}
		if set.Count != other.Count || !almostEqual(set.Support, other.Support) {
			t.Errorf("itemset %q differs between runs: %+v vs %+v", key, set, other)
		}
	}
}

func TestFrequentItemsetsParallelMatchesSerial(t *testing.T) {
	txns := []models.Transaction{
		txn("t1", "A", "B", "C"),
		txn("t2", "A", "B"),
		txn("t3", "B", "C", "D"),
		txn("t4", "A", "C", "D"),
		txn("t5", "A", "B", "C", "D"),
		txn("t6", "B", "D"),
		txn("t7", "A", "D"),
		txn("t8", "A", "B", "D"),
	}

	serialCfg := DefaultConfig()
	serialCfg.ParallelThreshold = 0 // counting never partitions
	parallelCfg := DefaultConfig()
	parallelCfg.ParallelThreshold = 1 // counting always partitions
	parallelCfg.CountWorkers = 3

	serial, err := NewMiner(serialCfg).FrequentItemsets(context.Background(), txns, 0.25)
	if err != nil {
		t.Fatalf("serial run error: %v", err)
	}
	parallel, err := NewMiner(parallelCfg).FrequentItemsets(context.Background(), txns, 0.25)
	if err != nil {
		t.Fatalf("parallel run error: %v", err)
	}

	if len(serial) != len(parallel) {
		t.Fatalf("result sizes differ: serial %d, parallel %d", len(serial), len(parallel))
	}
	for key, set := range serial {
		other, ok := parallel[key]
		if !ok {
			t.Errorf("itemset %q missing from parallel run", key)
			continue
		}
		if set.Count != other.Count {
			t.Errorf("itemset %q count differs: serial %d, parallel %d", key, set.Count, other.Count)
		}
	}
}

func TestFrequentItemsetsCancellation(t *testing.T) {
	miner := NewMiner(DefaultConfig())
	txns := []models.Transaction{
		txn("t1", "A", "B"),
		txn("t2", "A", "B"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := miner.FrequentItemsets(ctx, txns, 0.1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FrequentItemsets() = %v, want context.Canceled", err)
	}
}

func TestCanonicalKeyOrderInsensitive(t *testing.T) {
	a := canonicalKey([]string{"milk", "bread", "eggs"})
	b := canonicalKey([]string{"eggs", "milk", "bread"})
	if a != b {
		t.Errorf("keys differ for the same member set: %q vs %q", a, b)
	}

	// The input slice must not be reordered.
	items := []string{"z", "a"}
	canonicalKey(items)
	if items[0] != "z" {
		t.Error("canonicalKey mutated its input")
	}
}
