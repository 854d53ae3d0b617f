// Package accounts holds the credential and profile rules shared by admin
// users and customers.
package accounts

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/backoffice-api/pkg/config"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/security"
)

const (
	MinPasswordLength = 8
	MaxNameLength     = 100
	MaxPhoneLength    = 32
)

var validate = validator.New()

// NormalizeEmail lowercases and trims an address and checks its syntax.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", Invalid("email", "email is required")
	}
	if err := validate.Var(email, "email,max=255"); err != nil {
		return "", Invalid("email", "email must be a valid address")
	}
	return email, nil
}

// RequireName trims a required profile name.
func RequireName(field, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", Invalid(field, field+" is required")
	}
	if len(name) > MaxNameLength {
		return "", Invalid(field, fmt.Sprintf("%s must be at most %d characters", field, MaxNameLength))
	}
	return name, nil
}

// HashPassword enforces the password policy before hashing.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if len(password) < MinPasswordLength {
		return "", Invalid("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > security.MaxPasswordBytes {
		return "", Invalid("password", fmt.Sprintf("password must be at most %d bytes", security.MaxPasswordBytes))
	}
	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return hash, nil
}

// CheckPassword compares a candidate against a stored hash.
func CheckPassword(candidate, hash string) (bool, error) {
	ok, err := security.VerifyPassword(candidate, hash)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	return ok, nil
}

// TrimOptional returns nil for missing or blank values.
func TrimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Column converts an optional string into an update value.
func Column(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func Invalid(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
