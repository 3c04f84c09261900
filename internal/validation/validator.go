// Fitsched - Trainer/Client Scheduling and Chat Backend
// Copyright 2026 Fitsched Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fitsched/fitsched

// Package validation provides input validation using
// go-playground/validator v10 plus field-level rules for the account
// fields, each with a stable client-facing message.
//
// The singleton validator is thread-safe and caches struct info.
// Field-level helpers return *apperr.Error values with
// apperr.KindValidation so handlers map them to HTTP 400 directly.
package validation

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/fitsched/fitsched/internal/apperr"
	"github.com/fitsched/fitsched/internal/models"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	fullNameRegex = regexp.MustCompile(`^[\p{L} '-]+$`)
	phoneRegex    = regexp.MustCompile(`^[+]?[\d\s-]{6,20}$`)
)

// GetValidator returns the singleton validator instance with the
// custom account validators registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Tag-level variants of the field rules, for struct tags.
		// Errors from these carry the tag name; handlers that need the
		// full message call the field helpers instead.
		_ = validate.RegisterValidation("username_format", func(fl validator.FieldLevel) bool {
			return Username(fl.Field().String()) == nil
		})
		_ = validate.RegisterValidation("full_name_format", func(fl validator.FieldLevel) bool {
			return FullName(fl.Field().String()) == nil
		})
		_ = validate.RegisterValidation("phone_format", func(fl validator.FieldLevel) bool {
			return PhoneNumber(fl.Field().String()) == nil
		})
		_ = validate.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
			return Password(fl.Field().String()) == nil
		})
	})

	return validate
}

// Email validates an email address.
func Email(email string) error {
	if !emailRegex.MatchString(email) {
		return apperr.Validation("Invalid email format")
	}
	if len(email) > 100 {
		return apperr.Validation("Email is too long (max 100 characters)")
	}
	return nil
}

// Username validates a username: 3-50 characters from letters, digits,
// underscores and dots.
func Username(username string) error {
	if len(username) < 3 {
		return apperr.Validation("Username must be at least 3 characters long")
	}
	if len(username) > 50 {
		return apperr.Validation("Username is too long (max 50 characters)")
	}
	if !usernameRegex.MatchString(username) {
		return apperr.Validation("Username can only contain letters, numbers, underscores and dots")
	}
	return nil
}

// FullName validates a full name: 2-100 characters, at least two words,
// letters (any alphabet), spaces, hyphens and apostrophes only.
func FullName(fullName string) error {
	if len(fullName) < 2 {
		return apperr.Validation("Full name must be at least 2 characters long")
	}
	if len(fullName) > 100 {
		return apperr.Validation("Full name is too long (max 100 characters)")
	}
	if len(strings.Fields(fullName)) < 2 {
		return apperr.Validation("Full name must include both first and last name")
	}
	if !fullNameRegex.MatchString(fullName) {
		return apperr.Validation("Full name can only contain letters, spaces, hyphens and apostrophes")
	}
	return nil
}

// PhoneNumber validates an optional phone number: digits, spaces,
// hyphens, an optional leading plus, and at least 6 digits overall.
func PhoneNumber(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return apperr.Validation("Invalid phone number format. Use only digits, spaces, hyphens, and optionally a + prefix")
	}
	digits := 0
	for _, c := range phone {
		if unicode.IsDigit(c) {
			digits++
		}
	}
	if digits < 6 {
		return apperr.Validation("Phone number must contain at least 6 digits")
	}
	return nil
}

// Password validates password strength: at least 8 characters with a
// digit, an uppercase and a lowercase letter.
func Password(password string) error {
	if len(password) < 8 {
		return apperr.Validation("Password must be at least 8 characters long")
	}
	var hasDigit, hasUpper, hasLower bool
	for _, c := range password {
		switch {
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		}
	}
	if !hasDigit {
		return apperr.Validation("Password must contain at least one digit")
	}
	if !hasUpper {
		return apperr.Validation("Password must contain at least one uppercase letter")
	}
	if !hasLower {
		return apperr.Validation("Password must contain at least one lowercase letter")
	}
	return nil
}

// Role validates a self-assignable role and normalizes its case.
// Only client and trainer can be chosen at registration; admin accounts
// are provisioned out of band.
func Role(role string) (models.Role, error) {
	switch strings.ToLower(role) {
	case "client":
		return models.RoleClient, nil
	case "trainer":
		return models.RoleTrainer, nil
	default:
		return "", apperr.Validation("Invalid role. Must be 'client' or 'trainer'")
	}
}

// ValidateStruct validates a struct using the singleton validator.
// The first failing field's tag decides the message.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperr.Validationf("%s failed validation on '%s'", fe.Field(), fe.Tag())
	}
	return apperr.Validation(err.Error())
}
