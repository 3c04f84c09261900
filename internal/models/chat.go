// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemSenderName labels messages originating from the server rather
// than a user. System messages carry the nil UUID as sender.
const SystemSenderName = "System"

// ChatRoom is a named chat room. Room IDs are free-form strings so
// well-known rooms like "general" can exist alongside generated ones.
type ChatRoom struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is an immutable message in a room. Messages are persisted
// before they are broadcast to connected clients.
type ChatMessage struct {
	ID         uuid.UUID `json:"id"`
	RoomID     string    `json:"room_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// SystemMessage builds a system-originated message for a room.
func SystemMessage(roomID, content string) ChatMessage {
	return ChatMessage{
		ID:         uuid.New(),
		RoomID:     roomID,
		SenderID:   uuid.Nil,
		SenderName: SystemSenderName,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
}

// CreateRoomRequest is the payload for creating a chat room.
type CreateRoomRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
