// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package recommend

import (
	"sort"

	"github.com/basketwise/basketwise/internal/models"
)

// ContentFilter recommends products similar to a reference product:
// catalog entries in the same category, ranked by the size of their
// feature-tag overlap with the reference. Zero overlap keeps a
// product eligible; category membership alone qualifies it. Ties keep
// catalog order.
func ContentFilter(productID string, catalog []models.Product, limit int) []models.Product {
	if limit <= 0 {
		return nil
	}

	var ref *models.Product
	for i := range catalog {
		if catalog[i].ID == productID {
			ref = &catalog[i]
			break
		}
	}
	if ref == nil {
		return nil
	}

	refFeatures := ref.FeatureSet()

	type scored struct {
		product models.Product
		overlap int
	}
	var candidates []scored

	for i := range catalog {
		p := catalog[i]
		if p.ID == ref.ID || p.Category != ref.Category {
			continue
		}

		overlap := 0
		for _, f := range p.Features {
			if _, ok := refFeatures[f]; ok {
				overlap++
			}
		}
		candidates = append(candidates, scored{product: p, overlap: overlap})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].overlap > candidates[j].overlap
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]models.Product, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.product)
	}
	return result
}
