package controllers

import (
	"net/http"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	"github.com/angelmondragon/backoffice-api/internal/inventory"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

type createLocationRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Address *string `json:"address"`
}

type updateLocationRequest struct {
	Name    types.Nullable[string] `json:"name"`
	Address types.Nullable[string] `json:"address"`
}

type upsertStockRequest struct {
	ProductID  int64 `json:"product_id" validate:"required,gt=0"`
	LocationID int64 `json:"location_id" validate:"required,gt=0"`
	Quantity   *int  `json:"quantity" validate:"required,gte=0"`
}

func LocationList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "inventory")
			return
		}
		params, err := validators.ParsePage(r, inventory.LocationSort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListLocations(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Locations retrieved.", listPayload("locations", page))
	}
}

func LocationGet(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "inventory")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		location, err := svc.GetLocation(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Location retrieved.", map[string]any{"location": location})
	}
}

func LocationCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "inventory")
			return
		}
		var body createLocationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		location, err := svc.CreateLocation(r.Context(), inventory.LocationInput{Name: body.Name, Address: body.Address})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Location created.", map[string]any{"location": location})
	}
}

func LocationUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "inventory")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateLocationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		location, err := svc.UpdateLocation(r.Context(), id, inventory.LocationUpdate{Name: body.Name, Address: body.Address})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Location updated.", map[string]any{"location": location})
	}
}

func LocationDelete(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "inventory")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteLocation(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Location deleted.", map[string]any{"id": id})
	}
}

func StockList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "inventory")
			return
		}
		params, err := validators.ParsePage(r, inventory.StockSort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseOptionalQueryID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		locationID, err := validators.ParseOptionalQueryID(r, "location_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListStock(r.Context(), params, inventory.StockFilter{ProductID: productID, LocationID: locationID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Inventory retrieved.", listPayload("inventory", page))
	}
}

func StockGet(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "inventory")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.GetStock(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Inventory retrieved.", map[string]any{"inventory": row})
	}
}

// StockUpsert sets the quantity for a (product, location) pair.
func StockUpsert(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "inventory")
			return
		}
		var body upsertStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.SetStock(r.Context(), inventory.StockInput{
			ProductID:  body.ProductID,
			LocationID: body.LocationID,
			Quantity:   *body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Inventory saved.", map[string]any{"inventory": row})
	}
}

func StockDelete(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "inventory")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteStock(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Inventory deleted.", map[string]any{"id": id})
	}
}
