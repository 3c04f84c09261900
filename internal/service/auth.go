// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/auth"
	"github.com/fitsched/fitsched/internal/logging"
	"github.com/fitsched/fitsched/internal/metrics"
	"github.com/fitsched/fitsched/internal/models"
	"github.com/fitsched/fitsched/internal/validation"
)

// OAuthExchanger covers the provider legs the login flow needs.
// *auth.OAuthClient satisfies it.
type OAuthExchanger interface {
	AuthorizationURL(p auth.Provider) string
	ExchangeCode(ctx context.Context, p auth.Provider, code string) (string, error)
	FetchUserInfo(ctx context.Context, p auth.Provider, accessToken string) (*auth.OAuthUserInfo, error)
}

// AuthService handles password logins and OAuth sign-in.
type AuthService struct {
	users  UserStore
	tokens *auth.Manager
	oauth  OAuthExchanger
}

// NewAuthService creates an auth service.
func NewAuthService(users UserStore, tokens *auth.Manager, oauth OAuthExchanger) *AuthService {
	return &AuthService{users: users, tokens: tokens, oauth: oauth}
}

// Login authenticates an email/password pair and issues a token.
// Unknown emails and wrong passwords produce the same error so the
// response does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := validation.Email(req.Email); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, apperr.Validation("Password cannot be empty")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			metrics.RecordLogin("invalid_credentials")
			return nil, apperr.Validation("Invalid credentials")
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		metrics.RecordLogin("invalid_credentials")
		return nil, apperr.Validation("Invalid credentials")
	}
	if !user.Active {
		metrics.RecordLogin("inactive")
		return nil, apperr.Forbidden("Account is inactive")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	metrics.RecordLogin("success")
	logging.Ctx(ctx).Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user logged in")
	return &models.LoginResponse{Token: token, User: *user, Message: "Login successful"}, nil
}

// OAuthLoginURL returns the provider authorization URL to redirect to.
func (s *AuthService) OAuthLoginURL(providerName string) string {
	return s.oauth.AuthorizationURL(auth.ParseProvider(providerName))
}

// OAuthCallback exchanges an authorization code, fetches the provider
// identity and signs the matching user in, creating the account on
// first sign-in.
func (s *AuthService) OAuthCallback(ctx context.Context, providerName, code string) (*models.LoginResponse, error) {
	if code == "" {
		return nil, apperr.Validation("Missing authorization code")
	}
	provider := auth.ParseProvider(providerName)

	accessToken, err := s.oauth.ExchangeCode(ctx, provider, code)
	if err != nil {
		return nil, err
	}
	info, err := s.oauth.FetchUserInfo(ctx, provider, accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.findOrCreateOAuthUser(ctx, info)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		metrics.RecordLogin("inactive")
		return nil, apperr.Forbidden("Account is inactive")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	metrics.RecordLogin("success")
	logging.Ctx(ctx).Info().
		Str("user_id", user.ID.String()).
		Str("provider", string(info.Provider)).
		Msg("oauth login")
	return &models.LoginResponse{Token: token, User: *user, Message: "OAuth login successful"}, nil
}

// findOrCreateOAuthUser looks the provider email up and provisions a
// client account when none exists. The generated account gets an
// unguessable random password so it can only sign in through OAuth
// until the password is changed.
func (s *AuthService) findOrCreateOAuthUser(ctx context.Context, info *auth.OAuthUserInfo) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(uuid.New().String())
	if err != nil {
		return nil, err
	}
	created, err := s.users.Create(ctx, &models.User{
		Username:     fmt.Sprintf("%s_user", strings.ToLower(string(info.Provider))),
		Email:        info.Email,
		PasswordHash: hash,
		FullName:     info.Name,
		Role:         models.RoleClient,
		Active:       true,
	})
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().
		Str("user_id", created.ID.String()).
		Str("provider", string(info.Provider)).
		Msg("oauth user provisioned")
	return created, nil
}
