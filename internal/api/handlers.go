// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package api

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fitsched/fitsched/internal/auth"
	"github.com/fitsched/fitsched/internal/chat"
	"github.com/fitsched/fitsched/internal/models"
	"github.com/fitsched/fitsched/internal/service"
)

// Handler bundles the services behind the HTTP endpoints.
type Handler struct {
	users        *service.UserService
	auth         *service.AuthService
	appointments *service.AppointmentService
	chat         *service.ChatService
	registry     *chat.Registry
	messages     chat.MessageStore
	tokens       *auth.Manager
	upgrader     websocket.Upgrader
}

// NewHandler creates the API handler set.
func NewHandler(
	users *service.UserService,
	authSvc *service.AuthService,
	appointments *service.AppointmentService,
	chatSvc *service.ChatService,
	registry *chat.Registry,
	messages chat.MessageStore,
	tokens *auth.Manager,
) *Handler {
	return &Handler{
		users:        users,
		auth:         authSvc,
		appointments: appointments,
		chat:         chatSvc,
		registry:     registry,
		messages:     messages,
		tokens:       tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens in the CORS layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// actor builds the authorization identity from the request's token.
func (h *Handler) actor(r *http.Request) (service.Actor, error) {
	claims, err := h.tokens.Identify(r)
	if err != nil {
		return service.Actor{}, err
	}
	id, err := claims.UserID()
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{ID: id, Role: models.Role(claims.Role)}, nil
}

// requireSelfOrAdmin passes when the caller's id equals pathID or the
// caller holds the admin role.
func (h *Handler) requireSelfOrAdmin(r *http.Request, pathID string) error {
	callerID, err := h.tokens.RequireUser(r)
	if err != nil {
		return err
	}
	if callerID.String() == pathID {
		return nil
	}
	_, err = h.tokens.RequireRole(r, models.RoleAdmin)
	return err
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
