// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/basketwise/basketwise/internal/config"
)

// Router builds the HTTP handler tree.
type Router struct {
	handler *Handler
	cfg     *config.APIConfig
}

// NewRouter creates a router over the given handler set.
func NewRouter(handler *Handler, cfg *config.APIConfig) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup wires middleware and routes and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(requestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger())
	r.Use(corsHandler(router.cfg))

	r.Get("/health", router.handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimiter(router.cfg))
		r.Use(requestMetrics())

		r.Post("/mine", router.handler.Mine)
		r.Post("/transactions", router.handler.IngestTransactions)
		r.Put("/products", router.handler.UpsertProducts)

		r.Route("/tenants/{tenantID}", func(r chi.Router) {
			r.Get("/rules", router.handler.Rules)

			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/collaborative", router.handler.Collaborative)
				r.Get("/content", router.handler.ContentBased)
				r.Get("/bundles", router.handler.Bundles)
				r.Get("/cross-sell", router.handler.CrossSell)
				r.Get("/inventory", router.handler.Inventory)
			})
		})
	})

	return r
}
