// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package database

import (
	"context"
	"fmt"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/models"
)

// ChatRepository stores chat rooms and messages.
type ChatRepository struct {
	db *DB
}

// NewChatRepository creates a chat repository on the shared pool.
func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Rooms returns all chat rooms ordered by name.
func (r *ChatRepository) Rooms(ctx context.Context) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := track("SELECT", "chat_rooms", func() error {
		rows, err := r.db.pool.Query(ctx,
			`SELECT id, name, created_at FROM chat_rooms ORDER BY name`)
		if err != nil {
			return apperr.Database(err)
		}
		defer rows.Close()

		for rows.Next() {
			var room models.ChatRoom
			if err := rows.Scan(&room.ID, &room.Name, &room.CreatedAt); err != nil {
				return apperr.Database(err)
			}
			rooms = append(rooms, room)
		}
		if err := rows.Err(); err != nil {
			return apperr.Database(err)
		}
		return nil
	})
	return rooms, err
}

// Room returns a single chat room.
func (r *ChatRepository) Room(ctx context.Context, roomID string) (*models.ChatRoom, error) {
	var room *models.ChatRoom
	err := track("SELECT", "chat_rooms", func() error {
		var result models.ChatRoom
		row := r.db.pool.QueryRow(ctx,
			`SELECT id, name, created_at FROM chat_rooms WHERE id = $1`, roomID)
		if err := row.Scan(&result.ID, &result.Name, &result.CreatedAt); err != nil {
			return wrapErr(err, fmt.Sprintf("Chat room %s not found", roomID))
		}
		room = &result
		return nil
	})
	return room, err
}

// CreateRoom inserts a new chat room.
func (r *ChatRepository) CreateRoom(ctx context.Context, id, name string) (*models.ChatRoom, error) {
	var room *models.ChatRoom
	err := track("INSERT", "chat_rooms", func() error {
		var result models.ChatRoom
		row := r.db.pool.QueryRow(ctx,
			`INSERT INTO chat_rooms (id, name) VALUES ($1, $2)
			 RETURNING id, name, created_at`, id, name)
		if err := row.Scan(&result.ID, &result.Name, &result.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return apperr.Validation("Chat room already exists")
			}
			return apperr.Database(err)
		}
		room = &result
		return nil
	})
	return room, err
}

// SaveMessage persists a chat message and returns the stored row.
// The chat session broadcasts a message only after this succeeds.
func (r *ChatRepository) SaveMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	var saved *models.ChatMessage
	err := track("INSERT", "chat_messages", func() error {
		var result models.ChatMessage
		row := r.db.pool.QueryRow(ctx,
			`INSERT INTO chat_messages (room_id, sender_id, sender_name, content)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, room_id, sender_id, sender_name, content, created_at`,
			msg.RoomID, msg.SenderID, msg.SenderName, msg.Content)
		if err := row.Scan(&result.ID, &result.RoomID, &result.SenderID,
			&result.SenderName, &result.Content, &result.CreatedAt); err != nil {
			return apperr.Database(err)
		}
		saved = &result
		return nil
	})
	return saved, err
}

// RecentMessages returns up to limit messages for a room, oldest first
// within the returned window.
func (r *ChatRepository) RecentMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := track("SELECT", "chat_messages", func() error {
		rows, err := r.db.pool.Query(ctx,
			`SELECT id, room_id, sender_id, sender_name, content, created_at
			 FROM (
			   SELECT id, room_id, sender_id, sender_name, content, created_at
			   FROM chat_messages
			   WHERE room_id = $1
			   ORDER BY created_at DESC
			   LIMIT $2
			 ) recent
			 ORDER BY created_at ASC`, roomID, limit)
		if err != nil {
			return apperr.Database(err)
		}
		defer rows.Close()

		for rows.Next() {
			var m models.ChatMessage
			if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.SenderName,
				&m.Content, &m.CreatedAt); err != nil {
				return apperr.Database(err)
			}
			messages = append(messages, m)
		}
		if err := rows.Err(); err != nil {
			return apperr.Database(err)
		}
		return nil
	})
	return messages, err
}
