package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/angelmondragon/backoffice-api/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintAccessToken issues a signed JWT for the provided payload using the configured TTL.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, time.Time, error) {
	if cfg.Secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", time.Time{}, fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return "", time.Time{}, fmt.Errorf("jwt expiration minutes must be positive")
	}
	if payload.PrincipalID <= 0 {
		return "", time.Time{}, fmt.Errorf("principal id must be positive")
	}
	if !payload.Kind.IsValid() {
		return "", time.Time{}, fmt.Errorf("invalid principal kind %q", payload.Kind)
	}

	expiresAt := now.Add(cfg.TTL())
	claims := AccessTokenClaims{
		PrincipalID: payload.PrincipalID,
		Kind:        payload.Kind,
		Role:        payload.Role,
		Name:        payload.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   strconv.FormatInt(payload.PrincipalID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing jwt: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAccessToken validates the JWT string and returns typed claims.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.PrincipalID <= 0 || !claims.Kind.IsValid() {
		return nil, fmt.Errorf("token is missing principal claims")
	}

	return claims, nil
}
