// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleClient, true},
		{RoleTrainer, true},
		{RoleAdmin, true},
		{Role("manager"), false},
		{Role(""), false},
		{Role("Client"), false},
	}

	for _, tt := range tests {
		if got := tt.role.Valid(); got != tt.want {
			t.Errorf("Role(%q).Valid() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestAppointmentStatusValid(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusScheduled, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if AppointmentStatus("done").Valid() {
		t.Error("status \"done\" should be invalid")
	}
}

func TestUserPasswordHashNeverSerialized(t *testing.T) {
	u := User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$secret",
		FullName:     "Alice Smith",
		Role:         RoleClient,
		Active:       true,
	}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("password hash leaked into JSON: %s", data)
	}
	if !strings.Contains(string(data), `"username":"alice"`) {
		t.Errorf("expected username field, got %s", data)
	}
}

func TestSystemMessage(t *testing.T) {
	msg := SystemMessage("general", "Alice has joined the chat")

	if msg.SenderID != uuid.Nil {
		t.Errorf("system message sender = %v, want nil UUID", msg.SenderID)
	}
	if msg.SenderName != SystemSenderName {
		t.Errorf("system message sender name = %q", msg.SenderName)
	}
	if msg.RoomID != "general" {
		t.Errorf("room = %q", msg.RoomID)
	}
	if msg.ID == uuid.Nil {
		t.Error("system message should get a fresh message id")
	}
}
