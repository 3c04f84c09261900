// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package auth

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/models"
)

// Identify verifies the request's bearer token and returns its claims.
// A missing or malformed token is a validation error (HTTP 400), which
// is what existing clients expect from these endpoints.
func (m *Manager) Identify(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, apperr.Validation("Missing authorization header")
	}
	token, err := ExtractBearer(authHeader)
	if err != nil {
		return nil, err
	}
	return m.Verify(token)
}

// RequireRole verifies the request and checks the token role against
// the required role. The match is exact: an admin token does not pass a
// client or trainer gate. Callers that admit admins check separately.
func (m *Manager) RequireRole(r *http.Request, role models.Role) (uuid.UUID, error) {
	claims, err := m.Identify(r)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.Role != role {
		return uuid.Nil, apperr.Forbidden("Insufficient permissions")
	}
	return claims.UserID()
}

// RequireUser verifies the request without a role check and returns the
// authenticated user id.
func (m *Manager) RequireUser(r *http.Request) (uuid.UUID, error) {
	claims, err := m.Identify(r)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID()
}

// IdentifyQueryToken verifies a token passed as the "token" query
// parameter. Used for the WebSocket handshake, where browsers cannot
// set an Authorization header. Failures are unauthorized rather than
// validation errors because the handshake never reaches JSON error
// handling clients rely on elsewhere.
func (m *Manager) IdentifyQueryToken(r *http.Request) (*Claims, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		return nil, apperr.Unauthorized("Missing authentication token")
	}
	claims, err := m.Verify(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid authentication token")
	}
	return claims, nil
}
