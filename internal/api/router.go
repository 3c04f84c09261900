// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitsched/fitsched/internal/config"
	"github.com/fitsched/fitsched/internal/middleware"
)

// loginRateLimit is the stricter per-IP budget on the login endpoint.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// NewRouter assembles the HTTP routing table.
func NewRouter(h *Handler, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit.Enabled {
			r.Use(httprate.LimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window))
		}
		r.Use(middleware.PrometheusMetrics)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/role/{role}", h.UsersByRole)
			r.Get("/statistics", h.UserStatistics)
			r.Get("/{id}", h.GetUser)
			r.Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
			r.Get("/{id}/client-appointments", h.ClientAppointments)
			r.Get("/{id}/trainer-appointments", h.TrainerAppointments)
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(httprate.LimitByIP(loginRateLimit, loginRateWindow)).Post("/login", h.Login)
			r.Get("/oauth/{provider}", h.OAuthLogin)
			r.Get("/oauth/callback", h.OAuthCallback)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", h.ListAppointments)
			r.Post("/", h.CreateAppointment)
			r.Get("/{id}", h.GetAppointment)
			r.Put("/{id}", h.UpdateAppointment)
			r.Delete("/{id}", h.DeleteAppointment)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/rooms", h.ListChatRooms)
			r.Post("/rooms", h.CreateChatRoom)
			r.Get("/rooms/{id}/messages", h.ChatRoomMessages)
			r.Get("/ws", h.ChatWebSocket)
		})
	})

	return r
}
