// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package chat

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fitsched/fitsched/internal/logging"
	"github.com/fitsched/fitsched/internal/metrics"
	"github.com/fitsched/fitsched/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// MessageStore persists chat messages. *database.ChatRepository
// satisfies it.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error)
}

// inboundFrame is a client frame. Type selects which fields matter.
type inboundFrame struct {
	Type    string    `json:"type"`
	UserID  uuid.UUID `json:"user_id"`
	RoomID  string    `json:"room_id"`
	Content string    `json:"content"`
}

// Session is one authenticated WebSocket connection. It owns its
// conn and send channel; the registry only holds the channel while the
// session is joined to a room.
type Session struct {
	userID   uuid.UUID
	userName string
	registry *Registry
	store    MessageStore
	conn     *websocket.Conn
	send     chan []byte
	roomID   string
}

// NewSession wraps an upgraded connection in a session.
func NewSession(conn *websocket.Conn, registry *Registry, store MessageStore, userID uuid.UUID, userName string) *Session {
	return &Session{
		userID:   userID,
		userName: userName,
		registry: registry,
		store:    store,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
	}
}

// Run services the connection until it closes. It blocks, so callers
// run it from the upgrade handler's goroutine.
func (s *Session) Run(ctx context.Context) {
	metrics.ChatConnectionsActive.Inc()
	defer metrics.ChatConnectionsActive.Dec()

	go s.writePump()
	s.readPump(ctx)
}

func (s *Session) readPump(ctx context.Context) {
	defer func() {
		s.cleanup(ctx)
		close(s.send)
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Str("user_id", s.userID.String()).Msg("unexpected websocket close")
			}
			return
		}
		if messageType == websocket.BinaryMessage {
			s.sendError("Binary messages are not supported")
			continue
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			logging.Debug().Err(err).Msg("unparseable chat frame")
			s.sendError("Invalid message format")
			continue
		}

		switch frame.Type {
		case "connect":
			s.handleConnect(ctx, frame)
		case "message":
			s.handleMessage(ctx, frame)
		case "disconnect":
			s.handleDisconnect(ctx, frame)
		default:
			s.sendError("Invalid message format")
		}
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleConnect joins the session to a room after verifying the claimed
// identity. Joining a second room moves the session out of the first.
func (s *Session) handleConnect(ctx context.Context, frame inboundFrame) {
	if frame.UserID != s.userID {
		s.sendError("User ID mismatch")
		return
	}
	if s.roomID != "" && s.roomID != frame.RoomID {
		s.leaveRoom(ctx, s.roomID)
	}
	s.roomID = frame.RoomID
	s.registry.Join(frame.RoomID, s.userID, s.send)

	s.systemBroadcast(ctx, frame.RoomID, s.userName+" has joined the chat")
	s.sendJSON(map[string]string{"type": "connected", "room_id": frame.RoomID})
}

// handleMessage persists a user message and broadcasts it to the room,
// sender included. Nothing is broadcast when the write fails.
func (s *Session) handleMessage(ctx context.Context, frame inboundFrame) {
	if s.roomID == "" || s.roomID != frame.RoomID {
		s.sendError("Not connected to this room")
		return
	}

	msg := &models.ChatMessage{
		ID:         uuid.New(),
		RoomID:     frame.RoomID,
		SenderID:   s.userID,
		SenderName: s.userName,
		Content:    frame.Content,
		CreatedAt:  time.Now().UTC(),
	}
	saved, err := s.store.SaveMessage(ctx, msg)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("room_id", frame.RoomID).Msg("failed to save chat message")
		return
	}
	metrics.ChatMessagesTotal.WithLabelValues("user").Inc()

	payload, err := json.Marshal(saved)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal chat message")
		return
	}
	s.registry.Broadcast(frame.RoomID, payload, nil)
}

// handleDisconnect leaves the current room on request. A mismatched
// identity or room is reported without changing membership.
func (s *Session) handleDisconnect(ctx context.Context, frame inboundFrame) {
	if frame.UserID != s.userID {
		s.sendError("User ID mismatch")
		return
	}
	if s.roomID == "" || s.roomID != frame.RoomID {
		return
	}
	s.leaveRoom(ctx, frame.RoomID)
	s.sendJSON(map[string]string{"type": "disconnected", "room_id": frame.RoomID})
}

// cleanup runs on connection close and performs the same room exit an
// explicit disconnect frame would, so ungraceful terminations do not
// leak membership.
func (s *Session) cleanup(ctx context.Context) {
	if s.roomID == "" {
		return
	}
	s.leaveRoom(ctx, s.roomID)
}

func (s *Session) leaveRoom(ctx context.Context, roomID string) {
	s.registry.Leave(roomID, s.userID)
	s.roomID = ""
	s.systemBroadcast(ctx, roomID, s.userName+" has left the chat")
}

// systemBroadcast persists and broadcasts a system message. The
// broadcast is skipped when the write fails.
func (s *Session) systemBroadcast(ctx context.Context, roomID, content string) {
	msg := models.SystemMessage(roomID, content)
	saved, err := s.store.SaveMessage(ctx, &msg)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("room_id", roomID).Msg("failed to save system message")
		return
	}
	metrics.ChatMessagesTotal.WithLabelValues("system").Inc()

	payload, err := json.Marshal(saved)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal system message")
		return
	}
	s.registry.Broadcast(roomID, payload, nil)
}

func (s *Session) sendError(msg string) {
	s.sendJSON(map[string]string{"error": msg})
}

// sendJSON queues a frame for this session only, dropping it if the
// buffer is full.
func (s *Session) sendJSON(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal frame")
		return
	}
	select {
	case s.send <- payload:
	default:
		metrics.ChatBroadcastDropped.Inc()
	}
}
