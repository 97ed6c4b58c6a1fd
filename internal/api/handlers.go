// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package api

import (
	"context"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"

	"github.com/basketwise/basketwise/internal/basket"
	"github.com/basketwise/basketwise/internal/logging"
	"github.com/basketwise/basketwise/internal/models"
	"github.com/basketwise/basketwise/internal/recommend"
)

// maxRequestBody caps mutating request payloads at 10 MiB.
const maxRequestBody = 10 << 20

// Store is the data access surface the handlers need. Implemented by
// the database package.
type Store interface {
	basket.TransactionSource
	basket.RuleStore

	GetRules(ctx context.Context, tenantID string) ([]basket.AssociationRule, error)
	InsertTransactions(ctx context.Context, txns []models.Transaction) error
	UpsertProducts(ctx context.Context, products []models.Product) error
	ListTenants(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	store       Store
	engine      *basket.Engine
	recommender *recommend.Service
	validate    *validator.Validate
	startedAt   time.Time
}

// NewHandler creates the handler set.
func NewHandler(store Store, engine *basket.Engine, recommender *recommend.Service) *Handler {
	return &Handler{
		store:       store,
		engine:      engine,
		recommender: recommender,
		validate:    validator.New(),
		startedAt:   time.Now(),
	}
}

// Health reports service liveness, database reachability, and the
// recommendation breaker state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "ok"
	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, map[string]any{
		"database":       dbStatus,
		"breaker":        h.recommender.BreakerState(),
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}

// MineRequest triggers a mining run. Thresholds default to the engine
// configuration when omitted.
type MineRequest struct {
	TenantID      string   `json:"tenant_id" validate:"required"`
	MinSupport    *float64 `json:"min_support,omitempty" validate:"omitempty,gt=0,lte=1"`
	MinConfidence *float64 `json:"min_confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
	MinLift       *float64 `json:"min_lift,omitempty" validate:"omitempty,gte=0"`
}

// Mine runs the mining pipeline for one tenant and returns the run
// summary including the emitted rules.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	var req MineRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	engine := h.engine
	if req.MinSupport != nil || req.MinConfidence != nil || req.MinLift != nil {
		cfg := h.engine.Config()
		if req.MinSupport != nil {
			cfg.MinSupport = *req.MinSupport
		}
		if req.MinConfidence != nil {
			cfg.MinConfidence = *req.MinConfidence
		}
		if req.MinLift != nil {
			cfg.MinLift = *req.MinLift
		}

		override, err := basket.NewEngine(cfg, h.store, h.store, logging.Logger())
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_thresholds", err.Error(), err)
			return
		}
		engine = override
	}

	result, err := engine.Mine(r.Context(), req.TenantID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "mining_failed",
			"mining run failed", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// TransactionPayload is one ingested basket.
type TransactionPayload struct {
	ID         string        `json:"id,omitempty"`
	TenantID   string        `json:"tenant_id" validate:"required"`
	CustomerID string        `json:"customer_id" validate:"required"`
	Total      float64       `json:"total" validate:"gte=0"`
	CreatedAt  time.Time     `json:"created_at,omitempty"`
	Items      []ItemPayload `json:"items" validate:"required,min=1,dive"`
}

// ItemPayload is one line item of an ingested basket.
type ItemPayload struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// TransactionBatch is the POST /transactions payload.
type TransactionBatch struct {
	Transactions []TransactionPayload `json:"transactions" validate:"required,min=1,dive"`
}

// IngestTransactions stores a batch of transactions.
func (h *Handler) IngestTransactions(w http.ResponseWriter, r *http.Request) {
	var batch TransactionBatch
	if !h.decodeAndValidate(w, r, &batch) {
		return
	}

	txns := make([]models.Transaction, 0, len(batch.Transactions))
	for _, p := range batch.Transactions {
		items := make([]models.LineItem, 0, len(p.Items))
		for _, item := range p.Items {
			items = append(items, models.LineItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
		txns = append(txns, models.Transaction{
			ID:         p.ID,
			TenantID:   p.TenantID,
			CustomerID: p.CustomerID,
			Total:      p.Total,
			CreatedAt:  p.CreatedAt,
			Items:      items,
		})
	}

	if err := h.store.InsertTransactions(r.Context(), txns); err != nil {
		respondError(w, http.StatusInternalServerError, "ingest_failed",
			"transaction ingestion failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int{"ingested": len(txns)})
}

// ProductPayload is one upserted catalog entry.
type ProductPayload struct {
	ID       string   `json:"id" validate:"required"`
	TenantID string   `json:"tenant_id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Category string   `json:"category,omitempty"`
	Price    float64  `json:"price" validate:"gte=0"`
	Stock    int      `json:"stock" validate:"gte=0"`
	Features []string `json:"features,omitempty"`
}

// ProductBatch is the PUT /products payload.
type ProductBatch struct {
	Products []ProductPayload `json:"products" validate:"required,min=1,dive"`
}

// UpsertProducts inserts or updates catalog entries.
func (h *Handler) UpsertProducts(w http.ResponseWriter, r *http.Request) {
	var batch ProductBatch
	if !h.decodeAndValidate(w, r, &batch) {
		return
	}

	products := make([]models.Product, 0, len(batch.Products))
	for _, p := range batch.Products {
		products = append(products, models.Product{
			ID:       p.ID,
			TenantID: p.TenantID,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price,
			Stock:    p.Stock,
			Features: p.Features,
		})
	}

	if err := h.store.UpsertProducts(r.Context(), products); err != nil {
		respondError(w, http.StatusInternalServerError, "upsert_failed",
			"product upsert failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"upserted": len(products)})
}

// decodeAndValidate decodes the JSON body into dst and validates it.
// Writes the error response itself; returns false when handling should
// stop.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json",
			"request body is not valid JSON", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload", err.Error(), nil)
		return false
	}
	return true
}
