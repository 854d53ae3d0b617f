package security

import (
	"errors"
	"fmt"

	"github.com/angelmondragon/backoffice-api/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is used when the configured cost is outside bcrypt's range.
const DefaultCost = 10

// MaxPasswordBytes is bcrypt's input ceiling.
const MaxPasswordBytes = 72

// HashPassword returns a bcrypt hash for the provided password.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("password exceeds %d bytes", MaxPasswordBytes)
	}
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash. A
// mismatch is not an error; a malformed hash is.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
