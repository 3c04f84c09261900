// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/models"
)

// Login authenticates an email/password pair.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// OAuthLogin redirects to the provider's authorization page.
func (h *Handler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	url := h.auth.OAuthLoginURL(chi.URLParam(r, "provider"))
	http.Redirect(w, r, url, http.StatusFound)
}

// OAuthCallback finishes the OAuth flow: code exchange, user info
// fetch, find-or-create and token issue.
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	provider := query.Get("provider")
	if provider == "" {
		writeError(w, r, apperr.Validation("Missing provider"))
		return
	}
	resp, err := h.auth.OAuthCallback(r.Context(), provider, query.Get("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
