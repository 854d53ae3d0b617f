package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	"github.com/angelmondragon/backoffice-api/internal/options"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

type createOptionRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,max=100"`
}

type updateOptionRequest struct {
	Name types.Nullable[string] `json:"name"`
}

type createVariantRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

type updateVariantRequest struct {
	Name      types.Nullable[string] `json:"name"`
	SortOrder types.Nullable[int]    `json:"sort_order"`
}

type createSKURequest struct {
	ProductID int64              `json:"product_id" validate:"required,gt=0"`
	SKU       string             `json:"sku" validate:"required,max=100,sku"`
	Price     *decimal.Decimal   `json:"price" validate:"required"`
	Options   []models.SKUOption `json:"options" validate:"required,min=1"`
}

type updateSKURequest struct {
	SKU     types.Nullable[string]             `json:"sku"`
	Price   types.Nullable[decimal.Decimal]    `json:"price"`
	Options types.Nullable[[]models.SKUOption] `json:"options"`
}

func OptionList(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		params, err := validators.ParsePage(r, options.OptionSort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseOptionalQueryID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListOptions(r.Context(), params, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Options retrieved.", listPayload("options", page))
	}
}

func OptionGet(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		id, err := validators.PathID(r, "optionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		option, err := svc.GetOption(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Option retrieved.", map[string]any{"option": option})
	}
}

func OptionCreate(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		var body createOptionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		option, err := svc.CreateOption(r.Context(), options.OptionInput{ProductID: body.ProductID, Name: body.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Option created.", map[string]any{"option": option})
	}
}

func OptionUpdate(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		id, err := validators.PathID(r, "optionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateOptionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		option, err := svc.UpdateOption(r.Context(), id, options.OptionUpdate{Name: body.Name})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Option updated.", map[string]any{"option": option})
	}
}

func OptionDelete(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		id, err := validators.PathID(r, "optionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteOption(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Option deleted.", map[string]any{"id": id})
	}
}

func VariantList(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		optionID, err := validators.PathID(r, "optionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePage(r, options.VariantSort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListVariants(r.Context(), optionID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Variants retrieved.", listPayload("variants", page))
	}
}

func VariantGet(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		optionID, id, err := nestedIDs(r, "optionId", "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variant, err := svc.GetVariant(r.Context(), optionID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Variant retrieved.", map[string]any{"variant": variant})
	}
}

func VariantCreate(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		optionID, err := validators.PathID(r, "optionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body createVariantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variant, err := svc.CreateVariant(r.Context(), optionID, options.VariantInput{Name: body.Name, SortOrder: body.SortOrder})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Variant created.", map[string]any{"variant": variant})
	}
}

func VariantUpdate(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		optionID, id, err := nestedIDs(r, "optionId", "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateVariantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variant, err := svc.UpdateVariant(r.Context(), optionID, id, options.VariantUpdate{Name: body.Name, SortOrder: body.SortOrder})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Variant updated.", map[string]any{"variant": variant})
	}
}

func VariantDelete(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		optionID, id, err := nestedIDs(r, "optionId", "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteVariant(r.Context(), optionID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Variant deleted.", map[string]any{"id": id})
	}
}

func SKUList(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		params, err := validators.ParsePage(r, options.SKUSort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseOptionalQueryID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListSKUs(r.Context(), params, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "SKUs retrieved.", listPayload("skus", page))
	}
}

func SKUGet(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sku, err := svc.GetSKU(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "SKU retrieved.", map[string]any{"sku": sku})
	}
}

func SKUCreate(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		var body createSKURequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sku, err := svc.CreateSKU(r.Context(), options.SKUInput{
			ProductID: body.ProductID,
			SKU:       body.SKU,
			Price:     *body.Price,
			Options:   body.Options,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "SKU created.", map[string]any{"sku": sku})
	}
}

func SKUUpdate(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateSKURequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sku, err := svc.UpdateSKU(r.Context(), id, options.SKUUpdate{SKU: body.SKU, Price: body.Price, Options: body.Options})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "SKU updated.", map[string]any{"sku": sku})
	}
}

func SKUDelete(svc options.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "option")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteSKU(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "SKU deleted.", map[string]any{"id": id})
	}
}
