// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

// Package auth implements JWT issuance and verification, password
// hashing, request guards and the OAuth provider client.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/models"
)

// Claims are the JWT claims carried by every issued token. Tokens are
// stateless; nothing is persisted server-side.
type Claims struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the token subject as a user id.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid token")
	}
	return id, nil
}

// Manager issues and verifies HS256 tokens.
type Manager struct {
	secret   []byte
	lifetime time.Duration
}

// NewManager creates a token manager. Lifetime is the validity window
// for issued tokens.
func NewManager(secret string, lifetime time.Duration) *Manager {
	return &Manager{
		secret:   []byte(secret),
		lifetime: lifetime,
	}
}

// Issue creates a signed token for the user.
func (m *Manager) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name:  user.Username,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
// Expired and malformed tokens map to validation errors so the API
// responds with 400 as the clients expect.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Validation("Token expired")
		}
		return nil, apperr.Validation("Invalid token")
	}
	if !token.Valid {
		return nil, apperr.Validation("Invalid token")
	}
	return claims, nil
}

// ExtractBearer pulls the token out of an Authorization header value.
// Only the exact "Bearer <token>" shape is accepted.
func ExtractBearer(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", apperr.Validation("Invalid authorization header format")
	}
	return authHeader[len("Bearer "):], nil
}
