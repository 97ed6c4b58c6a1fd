// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package basket

import "sort"

// GenerateRules expands every frequent itemset of size >= 2 from the
// index into directional association rules, keeping rules that meet
// both the confidence and lift thresholds.
//
// Antecedent or consequent support missing from the index makes the
// candidate rule's confidence or lift undefined; such splits are
// skipped rather than scored. The skip is also the divide-by-zero
// guard: every support in the index is strictly positive.
//
// Output is sorted by lift descending; ties keep generation order.
func GenerateRules(index ItemsetIndex, minConfidence, minLift float64) []AssociationRule {
	var rules []AssociationRule

	for _, set := range index {
		if set.Size() < 2 {
			continue
		}
		rules = append(rules, expandItemset(index, set, minConfidence, minLift)...)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Lift > rules[j].Lift
	})

	return rules
}

// expandItemset enumerates every non-empty proper subset of the
// itemset's members as an antecedent; the consequent is the
// complement. For n members there are 2^n - 2 such splits.
func expandItemset(index ItemsetIndex, set Itemset, minConfidence, minLift float64) []AssociationRule {
	n := set.Size()
	var rules []AssociationRule

	for mask := 1; mask < (1<<n)-1; mask++ {
		antecedent := make([]string, 0, n-1)
		consequent := make([]string, 0, n-1)
		for bit := 0; bit < n; bit++ {
			if mask&(1<<bit) != 0 {
				antecedent = append(antecedent, set.Items[bit])
			} else {
				consequent = append(consequent, set.Items[bit])
			}
		}

		// Cannot occur given the mask bound, but guarded regardless.
		if len(consequent) == 0 {
			continue
		}

		rule, ok := scoreRule(index, set, antecedent, consequent)
		if !ok {
			continue
		}
		if rule.Confidence >= minConfidence && rule.Lift >= minLift {
			rules = append(rules, rule)
		}
	}

	return rules
}

// scoreRule computes support, confidence and lift for one
// antecedent/consequent split. Returns false when either side's
// support is unresolvable in the index.
func scoreRule(index ItemsetIndex, set Itemset, antecedent, consequent []string) (AssociationRule, bool) {
	antSupport, ok := index.SupportOf(antecedent)
	if !ok || antSupport == 0 {
		return AssociationRule{}, false
	}
	conSupport, ok := index.SupportOf(consequent)
	if !ok || conSupport == 0 {
		return AssociationRule{}, false
	}

	confidence := set.Support / antSupport
	lift := confidence / conSupport

	return AssociationRule{
		Antecedent: antecedent,
		Consequent: consequent,
		Support:    set.Support,
		Confidence: confidence,
		Lift:       lift,
	}, true
}
