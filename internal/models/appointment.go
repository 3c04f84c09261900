// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package models

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is a known appointment status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a scheduled session between a client and a trainer.
// AppointmentDate carries the calendar date; StartTime carries the time
// of day on that date.
type Appointment struct {
	ID              uuid.UUID         `json:"id"`
	ClientID        uuid.UUID         `json:"client_id"`
	TrainerID       uuid.UUID         `json:"trainer_id"`
	Title           string            `json:"title"`
	AppointmentDate time.Time         `json:"appointment_date"`
	StartTime       time.Time         `json:"start_time"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          AppointmentStatus `json:"status"`
	Notes           *string           `json:"notes"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// CreateAppointmentRequest is the payload for booking an appointment.
type CreateAppointmentRequest struct {
	TrainerID       uuid.UUID `json:"trainer_id"`
	Title           string    `json:"title"`
	AppointmentDate time.Time `json:"appointment_date"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           *string   `json:"notes"`
}

// UpdateAppointmentRequest is the payload for updating an appointment.
// Nil fields are left unchanged.
type UpdateAppointmentRequest struct {
	Title           *string            `json:"title"`
	AppointmentDate *time.Time         `json:"appointment_date"`
	StartTime       *time.Time         `json:"start_time"`
	DurationMinutes *int               `json:"duration_minutes"`
	Status          *AppointmentStatus `json:"status"`
	Notes           *string            `json:"notes"`
}
