// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitsched/fitsched/internal/chat"
	"github.com/fitsched/fitsched/internal/logging"
	"github.com/fitsched/fitsched/internal/models"
)

// ListChatRooms returns all rooms.
func (h *Handler) ListChatRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.chat.Rooms(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// CreateChatRoom creates a room with a caller-chosen id.
func (h *Handler) CreateChatRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.chat.CreateRoom(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// ChatRoomMessages returns the recent history of a room.
func (h *Handler) ChatRoomMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chat.RoomMessages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// ChatWebSocket upgrades the connection and runs a chat session. The
// token travels as a query parameter because browsers cannot set
// headers on the WebSocket handshake.
func (h *Handler) ChatWebSocket(w http.ResponseWriter, r *http.Request) {
	claims, err := h.tokens.IdentifyQueryToken(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote its own response.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	session := chat.NewSession(conn, h.registry, h.messages, userID, claims.Name)
	session.Run(r.Context())
}
