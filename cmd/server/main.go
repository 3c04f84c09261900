// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

// Package main is the entry point for the fitsched server.
//
// Startup order: configuration, logging, database (with schema
// bootstrap), repositories, services, chat registry, HTTP router.
// The server shuts down gracefully on SIGINT and SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitsched/fitsched/internal/api"
	"github.com/fitsched/fitsched/internal/auth"
	"github.com/fitsched/fitsched/internal/chat"
	"github.com/fitsched/fitsched/internal/config"
	"github.com/fitsched/fitsched/internal/database"
	"github.com/fitsched/fitsched/internal/logging"
	"github.com/fitsched/fitsched/internal/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Bool("https", cfg.Server.EnableHTTPS).
		Msg("Starting fitsched server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	logging.Info().Msg("Database schema ready")

	users := database.NewUserRepository(db)
	appointments := database.NewAppointmentRepository(db)
	chatRepo := database.NewChatRepository(db)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime())
	oauthClient := auth.NewOAuthClient(cfg.OAuth)
	registry := chat.NewRegistry()

	handler := api.NewHandler(
		service.NewUserService(users),
		service.NewAuthService(users, tokens, oauthClient),
		service.NewAppointmentService(appointments, users),
		service.NewChatService(chatRepo),
		registry,
		chatRepo,
		tokens,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, *cfg),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.Server.EnableHTTPS {
			err = srv.ListenAndServeTLS(cfg.Server.SSLCertPath, cfg.Server.SSLKeyPath)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("Graceful shutdown incomplete, forcing close")
		_ = srv.Close()
	}

	logging.Info().Msg("Server stopped")
	return nil
}
