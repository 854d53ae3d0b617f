package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/backoffice-api/api/responses"
	pkgAuth "github.com/angelmondragon/backoffice-api/pkg/auth"
	"github.com/angelmondragon/backoffice-api/pkg/config"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the principal.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication required."))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Invalid or expired token."))
				return
			}

			principal := Principal{
				ID:   claims.PrincipalID,
				Kind: claims.Kind,
				Role: claims.Role,
				Name: claims.Name,
			}
			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithPrincipal(ctx, principal.Kind.String(), principal.ID, principal.Role)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
