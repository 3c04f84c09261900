// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

// Package chat implements the live chat subsystem: a registry of rooms
// and connected sessions, and the WebSocket session protocol. Messages
// are persisted before they are broadcast.
package chat

import (
	"sync"

	"github.com/google/uuid"

	"github.com/fitsched/fitsched/internal/metrics"
)

// Registry tracks which users are in which rooms and holds each
// connected session's outbound sink. It is the only state shared across
// sessions; one lock guards both maps and is never held across I/O.
type Registry struct {
	mu       sync.Mutex
	rooms    map[string]map[uuid.UUID]struct{}
	sessions map[uuid.UUID]chan []byte
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[string]map[uuid.UUID]struct{}),
		sessions: make(map[uuid.UUID]chan []byte),
	}
}

// Join adds a user to a room and records the session's sink. A second
// session for the same user id replaces the first one's sink; last
// join wins.
func (r *Registry) Join(roomID string, userID uuid.UUID, send chan []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		room = make(map[uuid.UUID]struct{})
		r.rooms[roomID] = room
	}
	room[userID] = struct{}{}
	r.sessions[userID] = send
}

// Leave removes a user from a room and drops the session's sink. Empty
// rooms are removed from the table.
func (r *Registry) Leave(roomID string, userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[roomID]; ok {
		delete(room, userID)
		if len(room) == 0 {
			delete(r.rooms, roomID)
		}
	}
	delete(r.sessions, userID)
}

// Broadcast delivers a payload to every member of a room, optionally
// skipping one user id. Sends never block: a member whose buffer is
// full, or whose sink is already gone, is silently skipped. Returns the
// number of sessions the payload was handed to.
func (r *Registry) Broadcast(roomID string, payload []byte, skip *uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return 0
	}
	delivered := 0
	for userID := range room {
		if skip != nil && userID == *skip {
			continue
		}
		send, ok := r.sessions[userID]
		if !ok {
			continue
		}
		select {
		case send <- payload:
			delivered++
		default:
			metrics.ChatBroadcastDropped.Inc()
		}
	}
	return delivered
}

// Members returns the user ids currently in a room.
func (r *Registry) Members(roomID string) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]uuid.UUID, 0, len(room))
	for userID := range room {
		out = append(out, userID)
	}
	return out
}
