// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

// Package api provides the HTTP surface: chi routing, JSON
// request/response handling and the WebSocket upgrade endpoint.
package api

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/logging"
)

// maxBodyBytes caps request bodies. None of the API's payloads come
// close to this.
const maxBodyBytes = 1 << 20

// errorResponse is the wire shape of every error.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps an error to its HTTP status and serializes it as
// {"status","message"}. Internal details never reach the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.From(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeJSON(w, appErr.StatusCode(), errorResponse{
		Status:  appErr.StatusLabel(),
		Message: appErr.Message,
	})
}

// decodeJSON decodes a request body into dst, rejecting oversized or
// malformed payloads.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperr.BadRequest("Failed to read request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	return nil
}
