// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/models"
)

const appointmentColumns = `id, client_id, trainer_id, title, appointment_date, start_time, duration_minutes, status, notes, created_at, updated_at`

// AppointmentRepository stores appointments.
type AppointmentRepository struct {
	db *DB
}

// NewAppointmentRepository creates an appointment repository on the
// shared pool.
func NewAppointmentRepository(db *DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// timeOfDay converts a clock time to the TIME column representation.
func timeOfDay(t time.Time) pgtype.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return pgtype.Time{
		Microseconds: t.Sub(midnight).Microseconds(),
		Valid:        true,
	}
}

// clockTime converts a TIME column value back to a time.Time carrying
// only the time of day.
func clockTime(t pgtype.Time) time.Time {
	return time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(t.Microseconds) * time.Microsecond)
}

func scanAppointment(row interface{ Scan(dest ...any) error }) (*models.Appointment, error) {
	var a models.Appointment
	var start pgtype.Time
	err := row.Scan(&a.ID, &a.ClientID, &a.TrainerID, &a.Title, &a.AppointmentDate,
		&start, &a.DurationMinutes, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.StartTime = clockTime(start)
	return &a, nil
}

// queryAppointments runs a list query and scans all rows.
func (r *AppointmentRepository) queryAppointments(ctx context.Context, sql string, args ...any) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := track("SELECT", "appointments", func() error {
		rows, err := r.db.pool.Query(ctx, sql, args...)
		if err != nil {
			return apperr.Database(err)
		}
		defer rows.Close()

		for rows.Next() {
			a, err := scanAppointment(rows)
			if err != nil {
				return apperr.Database(err)
			}
			appointments = append(appointments, *a)
		}
		if err := rows.Err(); err != nil {
			return apperr.Database(err)
		}
		return nil
	})
	return appointments, err
}

// FindAll returns every appointment in calendar order.
func (r *AppointmentRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	return r.queryAppointments(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 ORDER BY appointment_date ASC, start_time ASC`)
}

// FindByID returns the appointment with the given id.
func (r *AppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := track("SELECT", "appointments", func() error {
		row := r.db.pool.QueryRow(ctx,
			`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
		a, err := scanAppointment(row)
		if err != nil {
			return wrapErr(err, fmt.Sprintf("Appointment with id %s not found", id))
		}
		appointment = a
		return nil
	})
	return appointment, err
}

// FindByClient returns a client's appointments in calendar order.
func (r *AppointmentRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]models.Appointment, error) {
	return r.queryAppointments(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE client_id = $1
		 ORDER BY appointment_date ASC, start_time ASC`, clientID)
}

// FindByTrainer returns a trainer's appointments in calendar order.
func (r *AppointmentRepository) FindByTrainer(ctx context.Context, trainerID uuid.UUID) ([]models.Appointment, error) {
	return r.queryAppointments(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE trainer_id = $1
		 ORDER BY appointment_date ASC, start_time ASC`, trainerID)
}

// Create inserts a new appointment with status scheduled.
func (r *AppointmentRepository) Create(ctx context.Context, a *models.Appointment) (*models.Appointment, error) {
	var created *models.Appointment
	err := track("INSERT", "appointments", func() error {
		row := r.db.pool.QueryRow(ctx,
			`INSERT INTO appointments
			   (client_id, trainer_id, title, appointment_date, start_time, duration_minutes, notes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING `+appointmentColumns,
			a.ClientID, a.TrainerID, a.Title, a.AppointmentDate,
			timeOfDay(a.StartTime), a.DurationMinutes, a.Notes)
		inserted, err := scanAppointment(row)
		if err != nil {
			return apperr.Database(err)
		}
		created = inserted
		return nil
	})
	return created, err
}

// Update writes back the full appointment row. The service merges
// request fields into the current state before calling this.
func (r *AppointmentRepository) Update(ctx context.Context, a *models.Appointment) (*models.Appointment, error) {
	var updated *models.Appointment
	err := track("UPDATE", "appointments", func() error {
		row := r.db.pool.QueryRow(ctx,
			`UPDATE appointments
			 SET title = $1, appointment_date = $2, start_time = $3,
			     duration_minutes = $4, status = $5, notes = $6, updated_at = NOW()
			 WHERE id = $7
			 RETURNING `+appointmentColumns,
			a.Title, a.AppointmentDate, timeOfDay(a.StartTime),
			a.DurationMinutes, a.Status, a.Notes, a.ID)
		result, err := scanAppointment(row)
		if err != nil {
			return wrapErr(err, fmt.Sprintf("Appointment with id %s not found", a.ID))
		}
		updated = result
		return nil
	})
	return updated, err
}

// Delete removes an appointment.
func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return track("DELETE", "appointments", func() error {
		tag, err := r.db.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
		if err != nil {
			return apperr.Database(err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFoundf("Appointment with id %s not found", id)
		}
		return nil
	})
}
