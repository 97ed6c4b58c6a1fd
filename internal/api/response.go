// Basketwise - Retail Market Basket Analysis and Recommendations
// Copyright 2026 Basketwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/basketwise/basketwise

package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/basketwise/basketwise/internal/logging"
)

// Response is the JSON envelope for all API responses.
type Response struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *APIError `json:"error,omitempty"`
}

// APIError carries a machine-readable code and a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON sends a success envelope with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(&Response{Status: "ok", Data: data})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error envelope. Internal errors are logged but
// never leaked to the client beyond the message given here.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}

	w.Header().Set("Content-Type", "application/json")

	body, merr := json.Marshal(&Response{
		Status: "error",
		Error:  &APIError{Code: code, Message: message},
	})
	if merr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, werr := w.Write(body); werr != nil {
		logging.Error().Err(werr).Msg("Failed to write error response")
	}
}
