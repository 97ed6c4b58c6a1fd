// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

/*
Package api provides the HTTP surface using the Chi router.

# Routes

Data endpoints under /api/v1, all tenant-scoped:

  - POST /api/v1/mine: trigger a mining run, optional threshold overrides
  - POST /api/v1/transactions: ingest a transaction batch
  - PUT  /api/v1/products: upsert catalog entries
  - GET  /api/v1/tenants/{tenantID}/rules
  - GET  /api/v1/tenants/{tenantID}/recommendations/collaborative
  - GET  /api/v1/tenants/{tenantID}/recommendations/content
  - GET  /api/v1/tenants/{tenantID}/recommendations/bundles
  - GET  /api/v1/tenants/{tenantID}/recommendations/cross-sell
  - GET  /api/v1/tenants/{tenantID}/recommendations/inventory

Operational endpoints: GET /health, GET /metrics (Prometheus).

# Middleware

Request ID propagation with logging context, real IP extraction, panic
recovery, CORS, per-IP rate limiting, and Prometheus request metrics.

# Responses

All responses are JSON envelopes with status, data, and an optional
error. Mutating payloads are validated with go-playground/validator.
*/
package api
