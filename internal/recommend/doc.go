// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

// Package recommend implements the recommendation strategies built on
// the mined association rules and the tenant's transaction and
// product data.
//
// # Strategies
//
//   - Collaborative filtering: similar-customer purchase aggregation
//   - Content-based filtering: same-category feature-tag similarity
//   - Bundle synthesis: high-lift rule packaging
//   - Cross-sell: rule-driven basket completion
//   - Inventory optimization: confidence-weighted demand propagation
//
// Each strategy is a pure function over its inputs; the Service wraps
// them with data fetching and failure degradation.
//
// # Failure Semantics
//
// Recommendations are advisory. When a strategy's upstream data fetch
// fails (or the circuit breaker is open), the strategy returns an
// empty result instead of propagating the error. One failing strategy
// never aborts its siblings.
package recommend
