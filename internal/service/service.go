// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

// Package service holds the business rules between the HTTP handlers
// and the repositories: structural validation, uniqueness checks,
// authorization and orchestration.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/models"
)

// UserStore is the persistence interface the user and auth services
// depend on. *database.UserRepository satisfies it.
type UserStore interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByRole(ctx context.Context, role models.Role) ([]models.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	ExistsByUsername(ctx context.Context, username string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	Update(ctx context.Context, u *models.User) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Statistics(ctx context.Context) (*models.UserStatistics, error)
}

// AppointmentStore is the persistence interface for appointments.
// *database.AppointmentRepository satisfies it.
type AppointmentStore interface {
	FindAll(ctx context.Context) ([]models.Appointment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]models.Appointment, error)
	FindByTrainer(ctx context.Context, trainerID uuid.UUID) ([]models.Appointment, error)
	Create(ctx context.Context, a *models.Appointment) (*models.Appointment, error)
	Update(ctx context.Context, a *models.Appointment) (*models.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChatStore is the persistence interface for chat rooms and messages.
// *database.ChatRepository satisfies it.
type ChatStore interface {
	Rooms(ctx context.Context) ([]models.ChatRoom, error)
	Room(ctx context.Context, roomID string) (*models.ChatRoom, error)
	CreateRoom(ctx context.Context, id, name string) (*models.ChatRoom, error)
	SaveMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error)
	RecentMessages(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error)
}

// Actor identifies the authenticated caller for authorization checks.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// parseID parses a path id, mapping failures to the stable message.
func parseID(idStr string) (uuid.UUID, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid UUID format")
	}
	return id, nil
}
