// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package service

import (
	"context"
	"testing"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/auth"
	"github.com/fitsched/fitsched/internal/models"
)

func validCreateRequest() models.CreateUserRequest {
	return models.CreateUserRequest{
		Username: "jane_doe",
		Email:    "jane@example.com",
		Password: "Str0ngPass",
		FullName: "Jane Doe",
	}
}

func wantAppErr(t *testing.T, err error, kind apperr.Kind, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", msg)
	}
	appErr := apperr.From(err)
	if appErr.Kind != kind {
		t.Errorf("kind = %v, want %v (err: %v)", appErr.Kind, kind, err)
	}
	if appErr.Message != msg {
		t.Errorf("message = %q, want %q", appErr.Message, msg)
	}
}

func TestUserServiceCreate(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	ctx := context.Background()

	user, err := svc.Create(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Role != models.RoleClient {
		t.Errorf("role = %q, want default client", user.Role)
	}
	if !user.Active {
		t.Error("new user should be active")
	}
	if !auth.VerifyPassword(user.PasswordHash, "Str0ngPass") {
		t.Error("stored hash does not verify the original password")
	}
}

func TestUserServiceCreateDuplicates(t *testing.T) {
	store := newFakeUserStore()
	store.add(models.User{Username: "jane_doe", Email: "jane@example.com", Role: models.RoleClient, Active: true})
	svc := NewUserService(store)
	ctx := context.Background()

	req := validCreateRequest()
	_, err := svc.Create(ctx, req)
	wantAppErr(t, err, apperr.KindValidation, "Email is already in use")

	req.Email = "other@example.com"
	_, err = svc.Create(ctx, req)
	wantAppErr(t, err, apperr.KindValidation, "Username is already in use")
}

func TestUserServiceCreateRejectsAdminRole(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	req := validCreateRequest()
	role := models.RoleAdmin
	req.Role = &role

	_, err := svc.Create(context.Background(), req)
	wantAppErr(t, err, apperr.KindValidation, "Invalid role. Must be 'client' or 'trainer'")
}

func TestUserServiceGetByIDInvalidUUID(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	_, err := svc.GetByID(context.Background(), "not-a-uuid")
	wantAppErr(t, err, apperr.KindValidation, "Invalid UUID format")
}

func TestUserServiceByRole(t *testing.T) {
	store := newFakeUserStore()
	store.add(models.User{Username: "t1", Email: "t1@example.com", Role: models.RoleTrainer, Active: true})
	store.add(models.User{Username: "c1", Email: "c1@example.com", Role: models.RoleClient, Active: true})
	svc := NewUserService(store)

	trainers, err := svc.ByRole(context.Background(), "Trainer")
	if err != nil {
		t.Fatalf("ByRole: %v", err)
	}
	if len(trainers) != 1 || trainers[0].Username != "t1" {
		t.Errorf("trainers = %+v, want just t1", trainers)
	}

	_, err = svc.ByRole(context.Background(), "admin")
	wantAppErr(t, err, apperr.KindValidation, "Invalid role. Must be 'client' or 'trainer'")
}

func TestUserServiceUpdate(t *testing.T) {
	store := newFakeUserStore()
	target := store.add(models.User{Username: "jane_doe", Email: "jane@example.com", FullName: "Jane Doe", Role: models.RoleClient, Active: true})
	store.add(models.User{Username: "taken", Email: "taken@example.com", Role: models.RoleClient, Active: true})
	svc := NewUserService(store)
	ctx := context.Background()

	// Re-saving the user's own email is not a conflict.
	ownEmail := "jane@example.com"
	newName := "Jane Q Doe"
	updated, err := svc.Update(ctx, target.ID.String(), models.UpdateUserRequest{Email: &ownEmail, FullName: &newName})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.FullName != newName {
		t.Errorf("full name = %q, want %q", updated.FullName, newName)
	}
	if updated.Username != "jane_doe" {
		t.Errorf("username changed unexpectedly to %q", updated.Username)
	}

	conflict := "taken@example.com"
	_, err = svc.Update(ctx, target.ID.String(), models.UpdateUserRequest{Email: &conflict})
	wantAppErr(t, err, apperr.KindValidation, "Email is already in use")
}

func TestUserServiceUpdateRehashesPassword(t *testing.T) {
	store := newFakeUserStore()
	target := store.add(models.User{Username: "jane_doe", Email: "jane@example.com", FullName: "Jane Doe", Role: models.RoleClient, Active: true})
	svc := NewUserService(store)

	newPassword := "N3wPassword"
	updated, err := svc.Update(context.Background(), target.ID.String(), models.UpdateUserRequest{Password: &newPassword})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !auth.VerifyPassword(updated.PasswordHash, newPassword) {
		t.Error("updated hash does not verify the new password")
	}
}

func TestUserServiceDelete(t *testing.T) {
	store := newFakeUserStore()
	target := store.add(models.User{Username: "jane_doe", Email: "jane@example.com", Role: models.RoleClient, Active: true})
	svc := NewUserService(store)
	ctx := context.Background()

	if err := svc.Delete(ctx, target.ID.String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	err := svc.Delete(ctx, target.ID.String())
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("second delete: got %v, want not found", err)
	}
}
