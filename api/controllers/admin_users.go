package controllers

import (
	"net/http"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	"github.com/angelmondragon/backoffice-api/internal/adminusers"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

type createAdminUserRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required"`
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	RoleName  string  `json:"role_name" validate:"omitempty,oneof=super_admin admin staff"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
	IsActive  *bool   `json:"is_active"`
}

type updateAdminUserRequest struct {
	Email     types.Nullable[string] `json:"email"`
	Password  types.Nullable[string] `json:"password"`
	FirstName types.Nullable[string] `json:"first_name"`
	LastName  types.Nullable[string] `json:"last_name"`
	RoleName  types.Nullable[string] `json:"role_name"`
	AvatarURL types.Nullable[string] `json:"avatar_url"`
	IsActive  types.Nullable[bool]   `json:"is_active"`
}

type validatePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

func AdminUserList(svc adminusers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "admin user")
			return
		}
		params, err := validators.ParsePage(r, adminusers.Sort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Admin users retrieved.", listPayload("adminUsers", page))
	}
}

func AdminUserGet(svc adminusers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "admin user")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Admin user retrieved.", map[string]any{"adminUser": user})
	}
}

func AdminUserCreate(svc adminusers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "admin user")
			return
		}
		var body createAdminUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Create(r.Context(), adminusers.CreateInput{
			Email:     body.Email,
			Password:  body.Password,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			RoleName:  body.RoleName,
			AvatarURL: body.AvatarURL,
			IsActive:  body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Admin user created.", map[string]any{"adminUser": user})
	}
}

func AdminUserUpdate(svc adminusers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "admin user")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateAdminUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Update(r.Context(), id, adminusers.UpdateInput{
			Email:     body.Email,
			Password:  body.Password,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			RoleName:  body.RoleName,
			AvatarURL: body.AvatarURL,
			IsActive:  body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Admin user updated.", map[string]any{"adminUser": user})
	}
}

func AdminUserDelete(svc adminusers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "admin user")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Admin user deleted.", map[string]any{"id": id})
	}
}

// AdminUserValidatePassword answers {valid} without revealing whether the id exists.
func AdminUserValidatePassword(svc adminusers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "admin user")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body validatePasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		valid, err := svc.ValidatePassword(r.Context(), id, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Password checked.", map[string]bool{"valid": valid})
	}
}
