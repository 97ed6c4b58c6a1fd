// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

// Package metrics provides Prometheus instrumentation for mining
// runs, recommendation requests, database queries and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Mining metrics.
	MiningRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mining_runs_total",
			Help: "Total number of mining runs by outcome",
		},
		[]string{"status"}, // "success", "error"
	)

	MiningDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mining_run_duration_seconds",
			Help:    "Duration of full mining runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		},
	)

	FrequentItemsets = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mining_frequent_itemsets",
			Help: "Frequent itemsets found in the last mining run per tenant",
		},
		[]string{"tenant_id"},
	)

	AssociationRules = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mining_association_rules",
			Help: "Association rules emitted by the last mining run per tenant",
		},
		[]string{"tenant_id"},
	)

	// Recommendation metrics.
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total recommendation requests by strategy",
		},
		[]string{"strategy"},
	)

	// Database metrics.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)
)

// ObserveDBQuery records a database query's duration and outcome.
func ObserveDBQuery(operation, table string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// ObserveAPIRequest records an API request's duration and status.
func ObserveAPIRequest(endpoint, method string, status int, start time.Time) {
	APIRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())
}
