// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package basket

import (
	"context"
	"sort"
	"strings"
)

// keySeparator joins sorted itemset members into a canonical map key.
// Product IDs never contain the unit separator control character.
const keySeparator = "\x1f"

// Itemset is a set of product identifiers observed together across
// transactions, with its occurrence count and support.
type Itemset struct {
	// Items holds the member product IDs in sorted order.
	Items []string `json:"items"`

	// Count is the number of transactions containing every member.
	Count int `json:"count"`

	// Support is Count divided by the total transaction count.
	Support float64 `json:"support"`
}

// Key returns the canonical identity of the itemset. Two itemsets with
// identical sorted members share a key regardless of discovery order.
func (s *Itemset) Key() string {
	return canonicalKey(s.Items)
}

// Size returns the number of members.
func (s *Itemset) Size() int {
	return len(s.Items)
}

// canonicalKey builds the sorted-member key for a set of product IDs.
// The input slice is not modified.
func canonicalKey(items []string) string {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	return strings.Join(sorted, keySeparator)
}

// ItemsetIndex maps canonical keys to frequent itemsets across all
// mined levels. Size-1 itemsets are retrievable by the same keying as
// larger ones, which the rule generator relies on for support lookups.
type ItemsetIndex map[string]Itemset

// SupportOf returns the support of the itemset with the given members,
// and whether it is present in the index.
func (idx ItemsetIndex) SupportOf(items []string) (float64, bool) {
	set, ok := idx[canonicalKey(items)]
	if !ok {
		return 0, false
	}
	return set.Support, true
}

// AssociationRule is a directional rule antecedent => consequent with
// its statistical scores. Rules are derived wholesale from a mining
// run and never mutated individually.
type AssociationRule struct {
	// Antecedent is the sorted "if" side of the rule.
	Antecedent []string `json:"antecedent"`

	// Consequent is the sorted "then" side, disjoint from Antecedent.
	Consequent []string `json:"consequent"`

	// Support is the support of antecedent union consequent.
	Support float64 `json:"support"`

	// Confidence is rule support divided by antecedent support.
	Confidence float64 `json:"confidence"`

	// Lift is confidence divided by consequent support. Lift above 1
	// indicates positive association.
	Lift float64 `json:"lift"`
}

// contextCancelled reports whether the context has been canceled
// without blocking.
func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
