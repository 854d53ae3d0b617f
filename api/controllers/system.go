package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	"github.com/angelmondragon/backoffice-api/internal/system"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
)

type setPreferenceRequest struct {
	Value *string `json:"value" validate:"required"`
}

func PreferenceList(svc system.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "system")
			return
		}
		params, err := validators.ParsePage(r, system.PreferenceSort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListPreferences(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Preferences retrieved.", listPayload("preferences", page))
	}
}

func PreferenceGet(svc system.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "system")
			return
		}
		pref, err := svc.GetPreference(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Preference retrieved.", map[string]any{"preference": pref})
	}
}

func PreferenceSet(svc system.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "system")
			return
		}
		var body setPreferenceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pref, err := svc.SetPreference(r.Context(), chi.URLParam(r, "key"), *body.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Preference saved.", map[string]any{"preference": pref})
	}
}

func PreferenceDelete(svc system.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "system")
			return
		}
		key := chi.URLParam(r, "key")
		if err := svc.DeletePreference(r.Context(), key); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Preference deleted.", map[string]any{"key": key})
	}
}

func AuditLogList(svc system.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "system")
			return
		}
		params, err := validators.ParsePage(r, system.AuditSort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		adminID, err := validators.ParseOptionalQueryID(r, "admin_user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter := system.AuditFilter{
			AdminUserID: adminID,
			Resource:    validators.SanitizeString(r.URL.Query().Get("resource"), 100),
		}
		page, err := svc.ListAudit(r.Context(), params, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Audit logs retrieved.", listPayload("audit_logs", page))
	}
}

// DatabaseStatus always answers 200; the payload carries the health verdict.
func DatabaseStatus(svc system.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "system")
			return
		}
		status := svc.DatabaseStatus(r.Context())
		message := "Database healthy."
		if !status.Healthy {
			message = "Database degraded: " + strings.Join(status.Errors, "; ")
		}
		responses.WriteSuccess(w, message, map[string]any{"status": status})
	}
}
