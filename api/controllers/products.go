package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	"github.com/angelmondragon/backoffice-api/internal/products"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

type createProductRequest struct {
	SKU          string                    `json:"sku" validate:"required,max=100,sku"`
	Name         string                    `json:"name" validate:"required,max=255"`
	Description  *string                   `json:"description"`
	Price        *decimal.Decimal          `json:"price" validate:"required"`
	SalePrice    *decimal.Decimal          `json:"sale_price"`
	SaleStart    *time.Time                `json:"sale_start"`
	SaleEnd      *time.Time                `json:"sale_end"`
	ProductMedia []models.ProductMediaItem `json:"product_media" validate:"omitempty,dive"`
}

type updateProductRequest struct {
	SKU          types.Nullable[string]                    `json:"sku"`
	Name         types.Nullable[string]                    `json:"name"`
	Description  types.Nullable[string]                    `json:"description"`
	Price        types.Nullable[decimal.Decimal]           `json:"price"`
	SalePrice    types.Nullable[decimal.Decimal]           `json:"sale_price"`
	SaleStart    types.Nullable[time.Time]                 `json:"sale_start"`
	SaleEnd      types.Nullable[time.Time]                 `json:"sale_end"`
	ProductMedia types.Nullable[[]models.ProductMediaItem] `json:"product_media"`
}

func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "product")
			return
		}
		params, err := validators.ParsePage(r, products.Sort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Products retrieved.", listPayload("products", page))
	}
}

func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "product")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Product retrieved.", map[string]any{"product": product})
	}
}

func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "product")
			return
		}
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), products.CreateInput{
			SKU:          body.SKU,
			Name:         body.Name,
			Description:  body.Description,
			Price:        *body.Price,
			SalePrice:    body.SalePrice,
			SaleStart:    body.SaleStart,
			SaleEnd:      body.SaleEnd,
			ProductMedia: body.ProductMedia,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Product created.", map[string]any{"product": product})
	}
}

func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "product")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Update(r.Context(), id, products.UpdateInput{
			SKU:          body.SKU,
			Name:         body.Name,
			Description:  body.Description,
			Price:        body.Price,
			SalePrice:    body.SalePrice,
			SaleStart:    body.SaleStart,
			SaleEnd:      body.SaleEnd,
			ProductMedia: body.ProductMedia,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Product updated.", map[string]any{"product": product})
	}
}

func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "product")
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
		responses.WriteSuccess(w, "Product deleted.", map[string]any{"id": id})
	}
}
