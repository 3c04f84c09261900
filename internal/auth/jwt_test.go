// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Role:     models.RoleClient,
		Active:   true,
	}
}

func TestIssueAndVerify(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)
	user := testUser()

	token, err := mgr.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Errorf("subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Name != "alice" {
		t.Errorf("name = %q", claims.Name)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != models.RoleClient {
		t.Errorf("role = %q", claims.Role)
	}

	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID() error = %v", err)
	}
	if id != user.ID {
		t.Errorf("UserID() = %v, want %v", id, user.ID)
	}
}

func TestVerifyExpired(t *testing.T) {
	mgr := NewManager("test-secret", -time.Minute)
	token, err := mgr.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = mgr.Verify(token)
	if err == nil {
		t.Fatal("expected error for expired token")
	}
	if err.Error() != "Token expired" {
		t.Errorf("error = %q, want \"Token expired\"", err.Error())
	}
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Error("expired token should map to a validation error")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = NewManager("secret-b", time.Hour).Verify(token)
	if err == nil {
		t.Fatal("expected error for wrong secret")
	}
	if err.Error() != "Invalid token" {
		t.Errorf("error = %q, want \"Invalid token\"", err.Error())
	}
}

func TestVerifyGarbage(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)
	for _, token := range []string{"", "not.a.jwt", "a.b"} {
		if _, err := mgr.Verify(token); err == nil {
			t.Errorf("Verify(%q) expected error", token)
		}
	}
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc", "", true},
		{"no scheme", "abc.def.ghi", "", true},
		{"empty", "", "", true},
		{"scheme only", "Bearer", "", true},
		{"empty token", "Bearer ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearer(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractBearer(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractBearer(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	client := testUser()
	clientToken, _ := mgr.Issue(client)
	admin := &models.User{ID: uuid.New(), Username: "root", Email: "root@example.com", Role: models.RoleAdmin}
	adminToken, _ := mgr.Issue(admin)

	tests := []struct {
		name     string
		header   string
		role     models.Role
		wantKind apperr.Kind
		wantID   uuid.UUID
		wantErr  bool
	}{
		{"matching role", "Bearer " + clientToken, models.RoleClient, 0, client.ID, false},
		{"admin is not a client", "Bearer " + adminToken, models.RoleClient, apperr.KindForbidden, uuid.Nil, true},
		{"client is not admin", "Bearer " + clientToken, models.RoleAdmin, apperr.KindForbidden, uuid.Nil, true},
		{"missing header", "", models.RoleClient, apperr.KindValidation, uuid.Nil, true},
		{"bad scheme", "Token " + clientToken, models.RoleClient, apperr.KindValidation, uuid.Nil, true},
		{"invalid token", "Bearer garbage", models.RoleClient, apperr.KindValidation, uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			id, err := mgr.RequireRole(r, tt.role)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequireRole() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperr.IsKind(err, tt.wantKind) {
				t.Errorf("error kind mismatch: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("id = %v, want %v", id, tt.wantID)
			}
		})
	}
}

func TestIdentifyQueryToken(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)
	user := testUser()
	token, _ := mgr.Issue(user)

	r := httptest.NewRequest("GET", "/api/chat/ws?token="+token, nil)
	claims, err := mgr.IdentifyQueryToken(r)
	if err != nil {
		t.Fatalf("IdentifyQueryToken() error = %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Errorf("subject = %q", claims.Subject)
	}

	r = httptest.NewRequest("GET", "/api/chat/ws", nil)
	if _, err := mgr.IdentifyQueryToken(r); err == nil {
		t.Error("expected error without token parameter")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Str0ngPass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "Str0ngPass" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "Str0ngPass") {
		t.Error("VerifyPassword rejected correct password")
	}
	if VerifyPassword(hash, "WrongPass1") {
		t.Error("VerifyPassword accepted wrong password")
	}
}
