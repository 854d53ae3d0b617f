package middleware

import (
	"net/http"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
)

// RequireAdmin rejects callers that did not authenticate as an admin user.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(enums.PrincipalKindAdmin, "Admin access required.", logg)
}

// RequireCustomer rejects callers that did not authenticate as a customer.
func RequireCustomer(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(enums.PrincipalKindCustomer, "Customer access required.", logg)
}

// RequireRole restricts admin routes to the listed roles.
func RequireRole(logg *logger.Logger, roles ...enums.AdminRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok || !p.IsAdmin() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "Admin access required."))
				return
			}
			for _, role := range roles {
				if p.Role == role.String() {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "Insufficient role."))
		})
	}
}

func requireKind(kind enums.PrincipalKind, message string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication required."))
				return
			}
			if p.Kind != kind {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
