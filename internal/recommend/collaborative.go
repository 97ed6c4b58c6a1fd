// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package recommend

import (
	"sort"

	"github.com/basketwise/basketwise/internal/models"
)

// similarCustomerLimit caps how many most-similar customers
// contribute to the aggregated product scores.
const similarCustomerLimit = 10

// CollaborativeFilter recommends products for a customer based on
// what similar customers bought.
//
// Customers are scored by shared-item counts per transaction: each of
// another customer's transactions contributes its own overlap with
// the target's purchased set, so a repeat buyer of shared items ranks
// higher than a one-time buyer. The top similar customers then vote
// for their purchased-but-unowned products, each vote weighted by the
// voter's similarity score. Ties keep discovery order.
func CollaborativeFilter(customerID string, txns []models.Transaction, catalog []models.Product, limit int) []models.Product {
	if limit <= 0 {
		return nil
	}

	owned := make(map[string]struct{})
	for i := range txns {
		if txns[i].CustomerID != customerID {
			continue
		}
		for _, li := range txns[i].Items {
			owned[li.ProductID] = struct{}{}
		}
	}
	if len(owned) == 0 {
		return nil
	}

	// Score other customers by accumulated shared-item counts.
	// Ordered slices preserve discovery order for the stable sorts.
	similarity := make(map[string]int)
	customerItems := make(map[string][]string)
	customerSeen := make(map[string]map[string]struct{})
	var customerOrder []string

	for i := range txns {
		other := txns[i].CustomerID
		if other == customerID {
			continue
		}
		if _, seen := similarity[other]; !seen {
			similarity[other] = 0
			customerSeen[other] = make(map[string]struct{})
			customerOrder = append(customerOrder, other)
		}

		counted := make(map[string]struct{}, len(txns[i].Items))
		for _, li := range txns[i].Items {
			item := li.ProductID
			if _, dup := counted[item]; dup {
				continue
			}
			counted[item] = struct{}{}

			if _, seen := customerSeen[other][item]; !seen {
				customerSeen[other][item] = struct{}{}
				customerItems[other] = append(customerItems[other], item)
			}
			if _, ok := owned[item]; ok {
				similarity[other]++
			}
		}
	}

	sort.SliceStable(customerOrder, func(i, j int) bool {
		return similarity[customerOrder[i]] > similarity[customerOrder[j]]
	})
	if len(customerOrder) > similarCustomerLimit {
		customerOrder = customerOrder[:similarCustomerLimit]
	}

	// Aggregate unowned products from the similar customers, each
	// contributing its similarity score per product.
	productScores := make(map[string]int)
	var productOrder []string
	for _, other := range customerOrder {
		for _, item := range customerItems[other] {
			if _, alreadyOwned := owned[item]; alreadyOwned {
				continue
			}
			if _, seen := productScores[item]; !seen {
				productOrder = append(productOrder, item)
			}
			productScores[item] += similarity[other]
		}
	}

	sort.SliceStable(productOrder, func(i, j int) bool {
		return productScores[productOrder[i]] > productScores[productOrder[j]]
	})
	if len(productOrder) > limit {
		productOrder = productOrder[:limit]
	}

	return resolveProducts(productOrder, catalog)
}

// resolveProducts maps product IDs to full catalog records, dropping
// IDs absent from the catalog.
func resolveProducts(ids []string, catalog []models.Product) []models.Product {
	byID := make(map[string]models.Product, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = catalog[i]
	}

	resolved := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			resolved = append(resolved, p)
		}
	}
	return resolved
}
