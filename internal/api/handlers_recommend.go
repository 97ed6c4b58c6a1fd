// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/basketwise/basketwise/internal/basket"
	"github.com/basketwise/basketwise/internal/metrics"
)

// Rules returns the tenant's persisted association rules, sorted by
// lift descending. Supports an optional limit query parameter.
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	rules, err := h.store.GetRules(r.Context(), tenantID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "rules_failed",
			"failed to load rules", err)
		return
	}

	if limit := queryInt(r, "limit", 0); limit > 0 && limit < len(rules) {
		rules = rules[:limit]
	}
	if rules == nil {
		rules = []basket.AssociationRule{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"tenant_id": tenantID,
		"count":     len(rules),
		"rules":     rules,
	})
}

// Collaborative returns products bought by customers with similar
// purchase histories.
func (h *Handler) Collaborative(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		respondError(w, http.StatusBadRequest, "missing_customer",
			"customer_id query parameter is required", nil)
		return
	}

	metrics.RecommendationRequests.WithLabelValues("collaborative").Inc()
	products := h.recommender.Collaborative(r.Context(), tenantID, customerID, queryInt(r, "limit", 0))
	respondJSON(w, http.StatusOK, products)
}

// ContentBased returns same-category products ranked by shared
// feature tags.
func (h *Handler) ContentBased(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	productID := r.URL.Query().Get("product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "missing_product",
			"product_id query parameter is required", nil)
		return
	}

	metrics.RecommendationRequests.WithLabelValues("content").Inc()
	products := h.recommender.ContentBased(r.Context(), tenantID, productID, queryInt(r, "limit", 0))
	respondJSON(w, http.StatusOK, products)
}

// Bundles returns product bundles synthesized from high-lift rules.
func (h *Handler) Bundles(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	metrics.RecommendationRequests.WithLabelValues("bundles").Inc()
	bundles := h.recommender.Bundles(r.Context(), tenantID, queryInt(r, "top", 0))
	respondJSON(w, http.StatusOK, bundles)
}

// CrossSell returns rule consequents triggered by the given basket.
// The basket is passed as a comma-separated product list.
func (h *Handler) CrossSell(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	basketIDs := splitList(r.URL.Query().Get("basket"))
	if len(basketIDs) == 0 {
		respondError(w, http.StatusBadRequest, "missing_basket",
			"basket query parameter is required", nil)
		return
	}

	metrics.RecommendationRequests.WithLabelValues("cross_sell").Inc()
	suggestions := h.recommender.CrossSellFor(r.Context(), tenantID, basketIDs)
	respondJSON(w, http.StatusOK, suggestions)
}

// Inventory returns stock recommendations derived from rule
// confidence against current stock levels.
func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")

	metrics.RecommendationRequests.WithLabelValues("inventory").Inc()
	recommendations := h.recommender.Inventory(r.Context(), tenantID)
	respondJSON(w, http.StatusOK, recommendations)
}

// queryInt parses an integer query parameter, falling back to def on
// absence or garbage.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// splitList splits a comma-separated parameter, trimming blanks.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
