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

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/models"
)

const userColumns = `id, username, email, password_hash, full_name, phone_number, active, role, created_at, updated_at`

// UserRepository stores user accounts.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a user repository on the shared pool.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
		&u.PhoneNumber, &u.Active, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindAll returns every user, newest first.
func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := track("SELECT", "users", func() error {
		rows, err := r.db.pool.Query(ctx,
			`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
		if err != nil {
			return apperr.Database(err)
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return apperr.Database(err)
			}
			users = append(users, *u)
		}
		if err := rows.Err(); err != nil {
			return apperr.Database(err)
		}
		return nil
	})
	return users, err
}

// FindByID returns the user with the given id.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user *models.User
	err := track("SELECT", "users", func() error {
		row := r.db.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
		u, err := scanUser(row)
		if err != nil {
			return wrapErr(err, fmt.Sprintf("User with id %s not found", id))
		}
		user = u
		return nil
	})
	return user, err
}

// FindByEmail returns the user with the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := track("SELECT", "users", func() error {
		row := r.db.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
		u, err := scanUser(row)
		if err != nil {
			return wrapErr(err, fmt.Sprintf("User with email %s not found", email))
		}
		user = u
		return nil
	})
	return user, err
}

// FindByRole returns all users holding the role, newest first.
func (r *UserRepository) FindByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := track("SELECT", "users", func() error {
		rows, err := r.db.pool.Query(ctx,
			`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at DESC`, role)
		if err != nil {
			return apperr.Database(err)
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return apperr.Database(err)
			}
			users = append(users, *u)
		}
		if err := rows.Err(); err != nil {
			return apperr.Database(err)
		}
		return nil
	})
	return users, err
}

// ExistsByEmail reports whether another user already uses the email.
// excludeID skips one user, for updates; pass uuid.Nil to check all.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := track("SELECT", "users", func() error {
		row := r.db.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`, email, excludeID)
		if err := row.Scan(&exists); err != nil {
			return apperr.Database(err)
		}
		return nil
	})
	return exists, err
}

// ExistsByUsername reports whether another user already uses the username.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := track("SELECT", "users", func() error {
		row := r.db.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`, username, excludeID)
		if err := row.Scan(&exists); err != nil {
			return apperr.Database(err)
		}
		return nil
	})
	return exists, err
}

// Create inserts a new user. The caller has already hashed the
// password and resolved the role.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	var created *models.User
	err := track("INSERT", "users", func() error {
		row := r.db.pool.QueryRow(ctx,
			`INSERT INTO users (username, email, password_hash, full_name, phone_number, role)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING `+userColumns,
			u.Username, u.Email, u.PasswordHash, u.FullName, u.PhoneNumber, u.Role)
		inserted, err := scanUser(row)
		if err != nil {
			if isUniqueViolation(err) {
				return apperr.Validation("Email is already in use")
			}
			return apperr.Database(err)
		}
		created = inserted
		return nil
	})
	return created, err
}

// Update writes back the full user row. The service merges request
// fields into the current state before calling this.
func (r *UserRepository) Update(ctx context.Context, u *models.User) (*models.User, error) {
	var updated *models.User
	err := track("UPDATE", "users", func() error {
		row := r.db.pool.QueryRow(ctx,
			`UPDATE users
			 SET username = $1, email = $2, password_hash = $3, full_name = $4,
			     phone_number = $5, active = $6, role = $7, updated_at = NOW()
			 WHERE id = $8
			 RETURNING `+userColumns,
			u.Username, u.Email, u.PasswordHash, u.FullName, u.PhoneNumber,
			u.Active, u.Role, u.ID)
		result, err := scanUser(row)
		if err != nil {
			return wrapErr(err, fmt.Sprintf("User with id %s not found", u.ID))
		}
		updated = result
		return nil
	})
	return updated, err
}

// Delete removes a user. Missing users are a not-found error.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return track("DELETE", "users", func() error {
		tag, err := r.db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return apperr.Database(err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFoundf("User with id %s not found", id)
		}
		return nil
	})
}

// Statistics aggregates user counts for the admin dashboard.
func (r *UserRepository) Statistics(ctx context.Context) (*models.UserStatistics, error) {
	stats := &models.UserStatistics{}
	err := track("SELECT", "users", func() error {
		rows, err := r.db.pool.Query(ctx,
			`SELECT role, COUNT(*) FROM users GROUP BY role`)
		if err != nil {
			return apperr.Database(err)
		}
		defer rows.Close()

		for rows.Next() {
			var role models.Role
			var count int64
			if err := rows.Scan(&role, &count); err != nil {
				return apperr.Database(err)
			}
			stats.TotalUsers += count
			switch role {
			case models.RoleClient:
				stats.ClientCount = count
			case models.RoleTrainer:
				stats.TrainerCount = count
			case models.RoleAdmin:
				stats.AdminCount = count
			}
		}
		if err := rows.Err(); err != nil {
			return apperr.Database(err)
		}

		row := r.db.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM users WHERE active = FALSE`)
		if err := row.Scan(&stats.InactiveCount); err != nil {
			return apperr.Database(err)
		}

		row = r.db.pool.QueryRow(ctx,
			`SELECT
			   COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '24 hours'),
			   COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '7 days'),
			   COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '30 days')
			 FROM users`)
		if err := row.Scan(&stats.Registrations.Last24Hours,
			&stats.Registrations.Last7Days, &stats.Registrations.Last30Days); err != nil {
			return apperr.Database(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// setCreatedAt backdates a row; only tests use it.
func (r *UserRepository) setCreatedAt(ctx context.Context, id uuid.UUID, t time.Time) error {
	_, err := r.db.pool.Exec(ctx,
		`UPDATE users SET created_at = $1 WHERE id = $2`, t, id)
	return err
}
