// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/auth"
	"github.com/fitsched/fitsched/internal/logging"
	"github.com/fitsched/fitsched/internal/models"
	"github.com/fitsched/fitsched/internal/validation"
)

// UserService manages user accounts.
type UserService struct {
	users UserStore
}

// NewUserService creates a user service.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetAll returns every user, newest first.
func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}

// GetByID returns the user for a path id.
func (s *UserService) GetByID(ctx context.Context, idStr string) (*models.User, error) {
	id, err := parseID(idStr)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// ByRole returns users holding the given role. Only the
// self-assignable roles are valid filters.
func (s *UserService) ByRole(ctx context.Context, roleStr string) ([]models.User, error) {
	role, err := validation.Role(roleStr)
	if err != nil {
		return nil, err
	}
	return s.users.FindByRole(ctx, role)
}

// Create registers a new user. Fields are validated structurally, then
// email and username uniqueness is checked, then the password is hashed
// and the row inserted. The role defaults to client.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := validation.Username(req.Username); err != nil {
		return nil, err
	}
	if err := validation.Email(req.Email); err != nil {
		return nil, err
	}
	if err := validation.FullName(req.FullName); err != nil {
		return nil, err
	}
	if err := validation.Password(req.Password); err != nil {
		return nil, err
	}
	if req.PhoneNumber != nil {
		if err := validation.PhoneNumber(*req.PhoneNumber); err != nil {
			return nil, err
		}
	}

	role := models.RoleClient
	if req.Role != nil {
		validated, err := validation.Role(string(*req.Role))
		if err != nil {
			return nil, err
		}
		role = validated
	}

	if taken, err := s.users.ExistsByEmail(ctx, req.Email, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Validation("Email is already in use")
	}
	if taken, err := s.users.ExistsByUsername(ctx, req.Username, uuid.Nil); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Validation("Username is already in use")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user created")
	return user, nil
}

// Update applies a partial update: the current row is fetched, present
// request fields are merged in, and the full row is written back. The
// password is re-hashed only when a new one is provided.
func (s *UserService) Update(ctx context.Context, idStr string, req models.UpdateUserRequest) (*models.User, error) {
	id, err := parseID(idStr)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := validation.Email(*req.Email); err != nil {
			return nil, err
		}
		if taken, err := s.users.ExistsByEmail(ctx, *req.Email, id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Validation("Email is already in use")
		}
	}
	if req.Username != nil {
		if err := validation.Username(*req.Username); err != nil {
			return nil, err
		}
		if taken, err := s.users.ExistsByUsername(ctx, *req.Username, id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Validation("Username is already in use")
		}
	}
	if req.FullName != nil {
		if err := validation.FullName(*req.FullName); err != nil {
			return nil, err
		}
	}
	if req.Password != nil {
		if err := validation.Password(*req.Password); err != nil {
			return nil, err
		}
	}
	if req.PhoneNumber != nil {
		if err := validation.PhoneNumber(*req.PhoneNumber); err != nil {
			return nil, err
		}
	}

	var role *models.Role
	if req.Role != nil {
		validated, err := validation.Role(string(*req.Role))
		if err != nil {
			return nil, err
		}
		role = &validated
	}

	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		existing.Username = *req.Username
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.FullName != nil {
		existing.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		existing.PhoneNumber = req.PhoneNumber
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}
	if role != nil {
		existing.Role = *role
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		existing.PasswordHash = hash
	}

	return s.users.Update(ctx, existing)
}

// Delete removes a user account.
func (s *UserService) Delete(ctx context.Context, idStr string) error {
	id, err := parseID(idStr)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}

// Statistics aggregates user counts for the admin dashboard.
func (s *UserService) Statistics(ctx context.Context) (*models.UserStatistics, error) {
	return s.users.Statistics(ctx)
}
