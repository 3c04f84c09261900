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

// ListUsers returns every user. Admin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := h.tokens.RequireRole(r, models.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	users, err := h.users.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser registers a new account. Open endpoint.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// UsersByRole lists users holding a role. Admin only.
func (h *Handler) UsersByRole(w http.ResponseWriter, r *http.Request) {
	if _, err := h.tokens.RequireRole(r, models.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	users, err := h.users.ByRole(r.Context(), chi.URLParam(r, "role"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UserStatistics returns aggregate user counts. Admin only.
func (h *Handler) UserStatistics(w http.ResponseWriter, r *http.Request) {
	if _, err := h.tokens.RequireRole(r, models.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := h.users.Statistics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetUser returns one user. The user themselves or an admin.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.requireSelfOrAdmin(r, id); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateUser applies a partial update. The user themselves or an admin;
// changing the role additionally requires admin.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.requireSelfOrAdmin(r, id); err != nil {
		writeError(w, r, err)
		return
	}
	var req models.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Role != nil {
		if _, err := h.tokens.RequireRole(r, models.RoleAdmin); err != nil {
			writeError(w, r, err)
			return
		}
	}
	user, err := h.users.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser removes an account. Admin only.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, err := h.tokens.RequireRole(r, models.RoleAdmin); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClientAppointments lists a client's appointments. The user themselves
// or an admin.
func (h *Handler) ClientAppointments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.requireSelfOrAdmin(r, id); err != nil {
		writeError(w, r, err)
		return
	}
	appts, err := h.appointments.ClientAppointments(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// TrainerAppointments lists a trainer's appointments. The user
// themselves or an admin.
func (h *Handler) TrainerAppointments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.requireSelfOrAdmin(r, id); err != nil {
		writeError(w, r, err)
		return
	}
	appts, err := h.appointments.TrainerAppointments(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}
