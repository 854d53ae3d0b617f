package controllers

import (
	"net/http"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	"github.com/angelmondragon/backoffice-api/internal/customers"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

type createCustomerRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required"`
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

type updateCustomerRequest struct {
	Email     types.Nullable[string] `json:"email"`
	Password  types.Nullable[string] `json:"password"`
	FirstName types.Nullable[string] `json:"first_name"`
	LastName  types.Nullable[string] `json:"last_name"`
	Phone     types.Nullable[string] `json:"phone"`
	AvatarURL types.Nullable[string] `json:"avatar_url"`
}

func CustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "customer")
			return
		}
		params, err := validators.ParsePage(r, customers.Sort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Customers retrieved.", listPayload("customers", page))
	}
}

func CustomerGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "customer")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Customer retrieved.", map[string]any{"customer": customer})
	}
}

func CustomerCreate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "customer")
			return
		}
		var body createCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.Create(r.Context(), customers.CreateInput{
			Email:     body.Email,
			Password:  body.Password,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Phone:     body.Phone,
			AvatarURL: body.AvatarURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Customer created.", map[string]any{"customer": customer})
	}
}

func CustomerUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "customer")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.Update(r.Context(), id, customers.UpdateInput{
			Email:     body.Email,
			Password:  body.Password,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Phone:     body.Phone,
			AvatarURL: body.AvatarURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Customer updated.", map[string]any{"customer": customer})
	}
}

func CustomerDelete(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "customer")
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
		responses.WriteSuccess(w, "Customer deleted.", map[string]any{"id": id})
	}
}

// CustomerValidatePassword answers {valid} without revealing whether the id exists.
func CustomerValidatePassword(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "customer")
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
