package controllers

import (
	"net/http"

	"github.com/angelmondragon/backoffice-api/api/middleware"
	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	"github.com/angelmondragon/backoffice-api/internal/auth"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
)

func AdminAuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "auth")
			return
		}
		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.AdminLogin(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Login successful.", result)
	}
}

func CustomerAuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "auth")
			return
		}
		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.CustomerLogin(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Login successful.", result)
	}
}

func AdminAuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "auth")
			return
		}
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok || principal.Kind != enums.PrincipalKindAdmin {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication required."))
			return
		}
		user, err := svc.AdminMe(r.Context(), principal.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Current user retrieved.", map[string]any{"user": user})
	}
}

func CustomerAuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "auth")
			return
		}
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok || principal.Kind != enums.PrincipalKindCustomer {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication required."))
			return
		}
		customer, err := svc.CustomerMe(r.Context(), principal.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Current user retrieved.", map[string]any{"user": customer})
	}
}

// AuthLogout is stateless; tokens stay valid until they expire.
func AuthLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "Logged out.", map[string]bool{"logged_out": true})
	}
}
