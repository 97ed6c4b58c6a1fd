// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

// Package models defines the shared data types exchanged between the
// database layer, the mining core, and the API surface.
//
// Types here are plain data carriers with JSON tags. They hold no
// behavior beyond small convenience accessors so that every layer can
// depend on them without import cycles.
package models
