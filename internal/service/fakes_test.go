// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/models"
)

// fakeUserStore is an in-memory UserStore mirroring the repository's
// error contract.
type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) add(u models.User) *models.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = &u
	return &u
}

func (f *fakeUserStore) FindAll(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperr.NotFoundf("User with id %s not found", id)
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFoundf("User with email %s not found", email)
}

func (f *fakeUserStore) FindByRole(_ context.Context, role models.Role) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) ExistsByEmail(_ context.Context, email string, excludeID uuid.UUID) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) ExistsByUsername(_ context.Context, username string, excludeID uuid.UUID) (bool, error) {
	for _, u := range f.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) (*models.User, error) {
	cp := *u
	cp.ID = uuid.New()
	cp.Active = true
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	f.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUserStore) Update(_ context.Context, u *models.User) (*models.User, error) {
	if _, ok := f.users[u.ID]; !ok {
		return nil, apperr.NotFoundf("User with id %s not found", u.ID)
	}
	cp := *u
	cp.UpdatedAt = time.Now().UTC()
	f.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return apperr.NotFoundf("User with id %s not found", id)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) Statistics(_ context.Context) (*models.UserStatistics, error) {
	stats := &models.UserStatistics{}
	for _, u := range f.users {
		stats.TotalUsers++
		switch u.Role {
		case models.RoleClient:
			stats.ClientCount++
		case models.RoleTrainer:
			stats.TrainerCount++
		case models.RoleAdmin:
			stats.AdminCount++
		}
		if !u.Active {
			stats.InactiveCount++
		}
	}
	return stats, nil
}

// fakeAppointmentStore is an in-memory AppointmentStore.
type fakeAppointmentStore struct {
	appointments map[uuid.UUID]*models.Appointment
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{appointments: make(map[uuid.UUID]*models.Appointment)}
}

func (f *fakeAppointmentStore) FindAll(_ context.Context) ([]models.Appointment, error) {
	out := make([]models.Appointment, 0, len(f.appointments))
	for _, a := range f.appointments {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAppointmentStore) FindByID(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	if a, ok := f.appointments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, apperr.NotFoundf("Appointment with id %s not found", id)
}

func (f *fakeAppointmentStore) FindByClient(_ context.Context, clientID uuid.UUID) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.ClientID == clientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) FindByTrainer(_ context.Context, trainerID uuid.UUID) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appointments {
		if a.TrainerID == trainerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) Create(_ context.Context, a *models.Appointment) (*models.Appointment, error) {
	cp := *a
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	f.appointments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAppointmentStore) Update(_ context.Context, a *models.Appointment) (*models.Appointment, error) {
	if _, ok := f.appointments[a.ID]; !ok {
		return nil, apperr.NotFoundf("Appointment with id %s not found", a.ID)
	}
	cp := *a
	cp.UpdatedAt = time.Now().UTC()
	f.appointments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAppointmentStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.appointments[id]; !ok {
		return apperr.NotFoundf("Appointment with id %s not found", id)
	}
	delete(f.appointments, id)
	return nil
}

// fakeChatStore is an in-memory ChatStore.
type fakeChatStore struct {
	rooms    map[string]*models.ChatRoom
	messages []models.ChatMessage
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{rooms: make(map[string]*models.ChatRoom)}
}

func (f *fakeChatStore) Rooms(_ context.Context) ([]models.ChatRoom, error) {
	out := make([]models.ChatRoom, 0, len(f.rooms))
	for _, r := range f.rooms {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeChatStore) Room(_ context.Context, roomID string) (*models.ChatRoom, error) {
	if r, ok := f.rooms[roomID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, apperr.NotFoundf("Chat room %s not found", roomID)
}

func (f *fakeChatStore) CreateRoom(_ context.Context, id, name string) (*models.ChatRoom, error) {
	if _, ok := f.rooms[id]; ok {
		return nil, apperr.Validation("Chat room already exists")
	}
	room := &models.ChatRoom{ID: id, Name: name, CreatedAt: time.Now().UTC()}
	f.rooms[id] = room
	cp := *room
	return &cp, nil
}

func (f *fakeChatStore) SaveMessage(_ context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	cp := *msg
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	f.messages = append(f.messages, cp)
	out := cp
	return &out, nil
}

func (f *fakeChatStore) RecentMessages(_ context.Context, roomID string, limit int) ([]models.ChatMessage, error) {
	var all []models.ChatMessage
	for _, m := range f.messages {
		if m.RoomID == roomID {
			all = append(all, m)
		}
	}
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}
