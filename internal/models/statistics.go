// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

package models

// UserStatistics summarizes the user base for the admin dashboard.
type UserStatistics struct {
	TotalUsers    int64             `json:"total_users"`
	ClientCount   int64             `json:"client_count"`
	TrainerCount  int64             `json:"trainer_count"`
	AdminCount    int64             `json:"admin_count"`
	InactiveCount int64             `json:"inactive_count"`
	Registrations RegistrationStats `json:"registrations"`
}

// RegistrationStats counts recent registrations over rolling windows.
type RegistrationStats struct {
	Last24Hours int64 `json:"last_24_hours"`
	Last7Days   int64 `json:"last_7_days"`
	Last30Days  int64 `json:"last_30_days"`
}
