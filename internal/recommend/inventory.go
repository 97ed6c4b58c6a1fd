// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/basketwise/basketwise/internal/basket"
	"github.com/basketwise/basketwise/internal/models"
)

// inventoryLimit caps the number of stock recommendations emitted.
const inventoryLimit = 20

// OptimizeInventory propagates expected demand along association
// rules: for every (antecedent item, consequent item) pair, if the
// antecedent's units are expected to move, the rule's confidence says
// what fraction of consequent stock should be on hand. A
// recommendation is emitted only when the consequent's current stock
// is below ceil(antecedent stock x confidence). Priority is the
// rule's lift; output is sorted by priority descending.
func OptimizeInventory(rules []basket.AssociationRule, stock models.StockSnapshot) []StockRecommendation {
	var recs []StockRecommendation

	for i := range rules {
		r := &rules[i]
		for _, ant := range r.Antecedent {
			antStock := stock.Level(ant)
			recommended := int(math.Ceil(float64(antStock) * r.Confidence))

			for _, con := range r.Consequent {
				current := stock.Level(con)
				if current >= recommended {
					continue
				}

				recs = append(recs, StockRecommendation{
					ProductID:        con,
					CurrentStock:     current,
					RecommendedStock: recommended,
					Reason: fmt.Sprintf(
						"frequently bought with %s (%d in stock, confidence %.0f%%): keep at least %d units",
						ant, antStock, r.Confidence*100, recommended),
					Priority: r.Lift,
				})
			}
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	if len(recs) > inventoryLimit {
		recs = recs[:inventoryLimit]
	}
	return recs
}
