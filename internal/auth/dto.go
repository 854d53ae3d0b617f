package auth

import (
	"time"

	"github.com/angelmondragon/backoffice-api/internal/adminusers"
	"github.com/angelmondragon/backoffice-api/internal/customers"
)

// LoginRequest captures the credentials sent to either login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token     string                   `json:"token"`
	ExpiresAt time.Time                `json:"expires_at"`
	User      *adminusers.AdminUserDTO `json:"user"`
}

type CustomerLoginResponse struct {
	Token     string                 `json:"token"`
	ExpiresAt time.Time              `json:"expires_at"`
	User      *customers.CustomerDTO `json:"user"`
}
