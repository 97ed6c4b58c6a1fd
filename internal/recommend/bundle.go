// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package recommend

import (
	"fmt"
	"sort"

	"github.com/basketwise/basketwise/internal/basket"
)

// Bundle synthesis thresholds. Only strongly associated rules make
// sensible bundles.
const (
	bundleMinLift       = 2.0
	bundleMinConfidence = 0.5
)

// SynthesizeBundles converts the strongest rules into product
// bundles. Rules are expected pre-sorted by lift descending (the
// mining pipeline's output order), so taking the first topN matches
// after filtering yields the strongest bundles.
func SynthesizeBundles(rules []basket.AssociationRule, topN int) []Bundle {
	if topN <= 0 {
		return nil
	}

	bundles := make([]Bundle, 0, topN)
	for i := range rules {
		if len(bundles) >= topN {
			break
		}
		r := &rules[i]
		if r.Lift <= bundleMinLift || r.Confidence <= bundleMinConfidence {
			continue
		}

		bundles = append(bundles, Bundle{
			Products:       unionSorted(r.Antecedent, r.Consequent),
			Confidence:     r.Confidence,
			Lift:           r.Lift,
			ExpectedUplift: fmt.Sprintf("%.2f%%", (r.Lift-1)*100),
		})
	}

	return bundles
}

// unionSorted merges two disjoint sorted member lists into one sorted
// list.
func unionSorted(a, b []string) []string {
	union := make([]string, 0, len(a)+len(b))
	union = append(union, a...)
	union = append(union, b...)
	sort.Strings(union)
	return union
}
