// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/logging"
	"github.com/fitsched/fitsched/internal/models"
)

// AppointmentService manages bookings and enforces who may see and
// change them.
type AppointmentService struct {
	appointments AppointmentStore
	users        UserStore
}

// NewAppointmentService creates an appointment service.
func NewAppointmentService(appointments AppointmentStore, users UserStore) *AppointmentService {
	return &AppointmentService{appointments: appointments, users: users}
}

// isParticipant reports whether the actor is the client or trainer on
// the appointment.
func isParticipant(actor Actor, a *models.Appointment) bool {
	return actor.ID == a.ClientID || actor.ID == a.TrainerID
}

// GetAll returns every appointment. The handler restricts this to
// admins.
func (s *AppointmentService) GetAll(ctx context.Context) ([]models.Appointment, error) {
	return s.appointments.FindAll(ctx)
}

// GetByID returns one appointment. Only a participant or an admin may
// view it.
func (s *AppointmentService) GetByID(ctx context.Context, actor Actor, idStr string) (*models.Appointment, error) {
	id, err := parseID(idStr)
	if err != nil {
		return nil, err
	}
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !isParticipant(actor, appt) {
		return nil, apperr.Forbidden("You are not authorized to view this appointment")
	}
	return appt, nil
}

// ClientAppointments returns the appointments booked by a client.
func (s *AppointmentService) ClientAppointments(ctx context.Context, clientIDStr string) ([]models.Appointment, error) {
	id, err := parseID(clientIDStr)
	if err != nil {
		return nil, err
	}
	return s.appointments.FindByClient(ctx, id)
}

// TrainerAppointments returns the appointments assigned to a trainer.
func (s *AppointmentService) TrainerAppointments(ctx context.Context, trainerIDStr string) ([]models.Appointment, error) {
	id, err := parseID(trainerIDStr)
	if err != nil {
		return nil, err
	}
	return s.appointments.FindByTrainer(ctx, id)
}

// Create books an appointment for the given client. The chosen trainer
// must exist and hold the trainer role.
func (s *AppointmentService) Create(ctx context.Context, clientID uuid.UUID, req models.CreateAppointmentRequest) (*models.Appointment, error) {
	if req.Title == "" {
		return nil, apperr.Validation("Title cannot be empty")
	}
	if req.DurationMinutes <= 0 {
		return nil, apperr.Validation("Duration must be positive")
	}
	trainer, err := s.users.FindByID(ctx, req.TrainerID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.BadRequest("Selected user is not a trainer")
		}
		return nil, err
	}
	if trainer.Role != models.RoleTrainer {
		return nil, apperr.BadRequest("Selected user is not a trainer")
	}

	created, err := s.appointments.Create(ctx, &models.Appointment{
		ClientID:        clientID,
		TrainerID:       req.TrainerID,
		Title:           req.Title,
		AppointmentDate: req.AppointmentDate,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Status:          models.StatusScheduled,
		Notes:           req.Notes,
	})
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().
		Str("appointment_id", created.ID.String()).
		Str("client_id", clientID.String()).
		Str("trainer_id", req.TrainerID.String()).
		Msg("appointment created")
	return created, nil
}

// Update modifies an appointment. Only a participant or an admin may
// update it, and only the trainer on the appointment or an admin may
// mark it completed.
func (s *AppointmentService) Update(ctx context.Context, actor Actor, idStr string, req models.UpdateAppointmentRequest) (*models.Appointment, error) {
	id, err := parseID(idStr)
	if err != nil {
		return nil, err
	}
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !isParticipant(actor, appt) {
		return nil, apperr.Forbidden("You are not authorized to update this appointment")
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperr.Validation("Invalid status. Must be 'scheduled', 'completed' or 'cancelled'")
		}
		if *req.Status == models.StatusCompleted && !actor.IsAdmin() && actor.ID != appt.TrainerID {
			return nil, apperr.Forbidden("Only trainers or admins can mark appointments as completed")
		}
		appt.Status = *req.Status
	}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, apperr.Validation("Title cannot be empty")
		}
		appt.Title = *req.Title
	}
	if req.AppointmentDate != nil {
		appt.AppointmentDate = *req.AppointmentDate
	}
	if req.StartTime != nil {
		appt.StartTime = *req.StartTime
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, apperr.Validation("Duration must be positive")
		}
		appt.DurationMinutes = *req.DurationMinutes
	}
	if req.Notes != nil {
		appt.Notes = req.Notes
	}

	return s.appointments.Update(ctx, appt)
}

// Delete cancels an appointment outright. Only the client who booked it
// or an admin may delete it.
func (s *AppointmentService) Delete(ctx context.Context, actor Actor, idStr string) error {
	id, err := parseID(idStr)
	if err != nil {
		return err
	}
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.ID != appt.ClientID {
		return apperr.Forbidden("You are not authorized to delete this appointment")
	}
	if err := s.appointments.Delete(ctx, id); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().
		Str("appointment_id", id.String()).
		Msg("appointment deleted")
	return nil
}
