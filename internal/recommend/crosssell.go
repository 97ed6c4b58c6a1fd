// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package recommend

import (
	"sort"

	"github.com/basketwise/basketwise/internal/basket"
)

// crossSellLimit caps the number of suggestions emitted per basket.
const crossSellLimit = 10

// CrossSell suggests basket additions from rules the current basket
// triggers. A rule applies when its antecedent intersects the basket
// and its consequent is entirely outside it; the disjointness guard
// means a suggestion never contains a product already in the cart.
// Output is sorted by lift descending, ties keeping rule order.
func CrossSell(rules []basket.AssociationRule, basketIDs []string) []CrossSellSuggestion {
	if len(basketIDs) == 0 {
		return nil
	}

	inBasket := make(map[string]struct{}, len(basketIDs))
	for _, id := range basketIDs {
		inBasket[id] = struct{}{}
	}

	var suggestions []CrossSellSuggestion
	for i := range rules {
		r := &rules[i]
		if !intersects(r.Antecedent, inBasket) || intersects(r.Consequent, inBasket) {
			continue
		}

		suggestions = append(suggestions, CrossSellSuggestion{
			SuggestedProducts: r.Consequent,
			BasedOn:           r.Antecedent,
			Confidence:        r.Confidence,
			Lift:              r.Lift,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Lift > suggestions[j].Lift
	})
	if len(suggestions) > crossSellLimit {
		suggestions = suggestions[:crossSellLimit]
	}
	return suggestions
}

// intersects reports whether any member is present in the set.
func intersects(members []string, set map[string]struct{}) bool {
	for _, m := range members {
		if _, ok := set[m]; ok {
			return true
		}
	}
	return false
}
