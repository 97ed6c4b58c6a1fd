// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package basket

import (
	"context"
	"sort"
	"sync"

	"github.com/basketwise/basketwise/internal/models"
)

// Miner derives frequent itemsets from a transaction set using
// level-wise Apriori expansion capped at a configured itemset size.
type Miner struct {
	maxSize           int
	parallelThreshold int
	workers           int
}

// NewMiner creates a miner from the mining configuration.
func NewMiner(cfg *Config) *Miner {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxSize := cfg.MaxItemsetSize
	if maxSize < 1 {
		maxSize = 3
	}
	workers := cfg.CountWorkers
	if workers < 1 {
		workers = 4
	}

	return &Miner{
		maxSize:           maxSize,
		parallelThreshold: cfg.ParallelThreshold,
		workers:           workers,
	}
}

// FrequentItemsets mines all frequent itemsets of size 1 up to the
// configured cap. An empty transaction set yields an empty index, not
// an error. minSupport is applied literally.
func (m *Miner) FrequentItemsets(ctx context.Context, txns []models.Transaction, minSupport float64) (ItemsetIndex, error) {
	index := make(ItemsetIndex)
	total := len(txns)
	if total == 0 {
		return index, nil
	}

	// Materialize each transaction's distinct item set once; the
	// counting passes only need presence tests.
	txnSets := make([]map[string]struct{}, total)
	for i := range txns {
		txnSets[i] = txns[i].ItemSet()
	}

	// Level 1: count transactions containing each item.
	itemCounts := make(map[string]int)
	for _, set := range txnSets {
		for item := range set {
			itemCounts[item]++
		}
	}

	var frequent [][]string
	for item, count := range itemCounts {
		support := float64(count) / float64(total)
		if support < minSupport {
			continue
		}
		members := []string{item}
		index[canonicalKey(members)] = Itemset{Items: members, Count: count, Support: support}
		frequent = append(frequent, members)
	}

	// Levels 2..maxSize: join, count, prune.
	for size := 1; size < m.maxSize && len(frequent) > 0; size++ {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}

		candidates := m.joinCandidates(frequent, size+1)
		if len(candidates) == 0 {
			frequent = nil
			break
		}

		counts, err := m.countCandidates(ctx, txnSets, candidates)
		if err != nil {
			return nil, err
		}

		var next [][]string
		for key, members := range candidates {
			count := counts[key]
			support := float64(count) / float64(total)
			if support < minSupport {
				continue
			}
			index[key] = Itemset{Items: members, Count: count, Support: support}
			next = append(next, members)
		}
		frequent = next
	}

	return index, nil
}

// joinCandidates performs the Apriori join: union every pair of
// frequent size-k itemsets and keep only unions of exactly the target
// size, deduplicated by canonical key. The size check implicitly
// rejects duplicate and malformed joins.
func (m *Miner) joinCandidates(frequent [][]string, targetSize int) map[string][]string {
	candidates := make(map[string][]string)

	for i := 0; i < len(frequent); i++ {
		for j := i + 1; j < len(frequent); j++ {
			union := unionMembers(frequent[i], frequent[j])
			if len(union) != targetSize {
				continue
			}
			key := canonicalKey(union)
			if _, seen := candidates[key]; !seen {
				candidates[key] = union
			}
		}
	}

	return candidates
}

// unionMembers returns the sorted union of two member lists.
func unionMembers(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, item := range a {
		set[item] = struct{}{}
	}
	for _, item := range b {
		set[item] = struct{}{}
	}

	union := make([]string, 0, len(set))
	for item := range set {
		union = append(union, item)
	}
	sort.Strings(union)
	return union
}

// countCandidates counts, for each candidate, the transactions whose
// item set is a superset of the candidate. Above the parallel
// threshold the transaction slice is partitioned across workers and
// the per-partition counts are merged; count aggregation is
// commutative so no ordering is required.
func (m *Miner) countCandidates(ctx context.Context, txnSets []map[string]struct{}, candidates map[string][]string) (map[string]int, error) {
	if m.parallelThreshold <= 0 || len(txnSets) < m.parallelThreshold {
		return m.countPartition(ctx, txnSets, candidates)
	}

	partitions := m.workers
	if partitions > len(txnSets) {
		partitions = len(txnSets)
	}
	chunk := (len(txnSets) + partitions - 1) / partitions

	results := make([]map[string]int, partitions)
	errs := make([]error, partitions)
	var wg sync.WaitGroup

	for p := 0; p < partitions; p++ {
		lo := p * chunk
		hi := lo + chunk
		if hi > len(txnSets) {
			hi = len(txnSets)
		}

		wg.Add(1)
		go func(idx int, part []map[string]struct{}) {
			defer wg.Done()
			results[idx], errs[idx] = m.countPartition(ctx, part, candidates)
		}(p, txnSets[lo:hi])
	}
	wg.Wait()

	merged := make(map[string]int, len(candidates))
	for p := 0; p < partitions; p++ {
		if errs[p] != nil {
			return nil, errs[p]
		}
		for key, count := range results[p] {
			merged[key] += count
		}
	}
	return merged, nil
}

// countPartition counts candidate occurrences across one slice of
// transactions.
func (m *Miner) countPartition(ctx context.Context, txnSets []map[string]struct{}, candidates map[string][]string) (map[string]int, error) {
	counts := make(map[string]int, len(candidates))

	for _, set := range txnSets {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		for key, members := range candidates {
			if containsAll(set, members) {
				counts[key]++
			}
		}
	}

	return counts, nil
}

// containsAll reports whether every member is present in the set.
func containsAll(set map[string]struct{}, members []string) bool {
	for _, item := range members {
		if _, ok := set[item]; !ok {
			return false
		}
	}
	return true
}
