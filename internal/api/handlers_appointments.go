// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitsched/fitsched/internal/models"
)

// ListAppointments returns every appointment. Admin only.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	if _, err := h.tokens.RequireRole(r, models.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	appts, err := h.appointments.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// CreateAppointment books an appointment for the calling client.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	clientID, err := h.tokens.RequireRole(r, models.RoleClient)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.CreateAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	appt, err := h.appointments.Create(r.Context(), clientID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// GetAppointment returns one appointment for a participant or admin.
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	appt, err := h.appointments.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// UpdateAppointment applies a partial update under the participation
// rules.
func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.UpdateAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	appt, err := h.appointments.Update(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// DeleteAppointment removes a booking for its owning client or an
// admin.
func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.appointments.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
