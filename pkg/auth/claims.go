package auth

import (
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	PrincipalID int64
	Kind        enums.PrincipalKind
	Role        string
	Name        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	PrincipalID int64               `json:"pid"`
	Kind        enums.PrincipalKind `json:"kind"`
	Role        string              `json:"role"`
	Name        string              `json:"name,omitempty"`
	jwt.RegisteredClaims
}
