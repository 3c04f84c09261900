// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package service

import (
	"context"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/models"
)

// recentMessageLimit caps how many messages a room history request
// returns.
const recentMessageLimit = 50

// ChatService serves the REST side of chat: room listing, creation and
// message history. Live messaging runs over WebSocket sessions.
type ChatService struct {
	chat ChatStore
}

// NewChatService creates a chat service.
func NewChatService(chat ChatStore) *ChatService {
	return &ChatService{chat: chat}
}

// Rooms returns all chat rooms sorted by name.
func (s *ChatService) Rooms(ctx context.Context) ([]models.ChatRoom, error) {
	return s.chat.Rooms(ctx)
}

// CreateRoom creates a room with a caller-chosen id.
func (s *ChatService) CreateRoom(ctx context.Context, req models.CreateRoomRequest) (*models.ChatRoom, error) {
	if req.ID == "" {
		return nil, apperr.Validation("Room ID cannot be empty")
	}
	if req.Name == "" {
		return nil, apperr.Validation("Room name cannot be empty")
	}
	return s.chat.CreateRoom(ctx, req.ID, req.Name)
}

// RoomMessages returns the most recent messages for a room in
// chronological order. Unknown rooms yield a not-found error.
func (s *ChatService) RoomMessages(ctx context.Context, roomID string) ([]models.ChatMessage, error) {
	if _, err := s.chat.Room(ctx, roomID); err != nil {
		return nil, err
	}
	return s.chat.RecentMessages(ctx, roomID, recentMessageLimit)
}
