package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	"github.com/angelmondragon/backoffice-api/internal/shipments"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

type createShipmentRequest struct {
	OrderID        int64      `json:"order_id" validate:"required,gt=0"`
	Carrier        string     `json:"carrier" validate:"required,max=100"`
	TrackingNumber *string    `json:"tracking_number"`
	Status         string     `json:"status" validate:"omitempty,max=32"`
	ShippedAt      *time.Time `json:"shipped_at"`
}

type updateShipmentRequest struct {
	Carrier        types.Nullable[string]    `json:"carrier"`
	TrackingNumber types.Nullable[string]    `json:"tracking_number"`
	Status         types.Nullable[string]    `json:"status"`
	ShippedAt      types.Nullable[time.Time] `json:"shipped_at"`
}

type createShipmentItemRequest struct {
	OrderItemID     int64 `json:"order_item_id" validate:"required,gt=0"`
	QuantityShipped int   `json:"quantity_shipped" validate:"required,gt=0"`
}

type updateShipmentItemRequest struct {
	QuantityShipped types.Nullable[int] `json:"quantity_shipped"`
}

func ShipmentList(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "shipment")
			return
		}
		params, err := validators.ParsePage(r, shipments.Sort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseOptionalQueryID(r, "order_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), params, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Shipments retrieved.", listPayload("shipments", page))
	}
}

func ShipmentGet(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "shipment")
			return
		}
		id, err := validators.PathID(r, "shipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shipment, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Shipment retrieved.", map[string]any{"shipment": shipment})
	}
}

func ShipmentCreate(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "shipment")
			return
		}
		var body createShipmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shipment, err := svc.Create(r.Context(), shipments.CreateInput{
			OrderID:        body.OrderID,
			Carrier:        body.Carrier,
			TrackingNumber: body.TrackingNumber,
			Status:         body.Status,
			ShippedAt:      body.ShippedAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Shipment created.", map[string]any{"shipment": shipment})
	}
}

func ShipmentUpdate(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "shipment")
			return
		}
		id, err := validators.PathID(r, "shipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateShipmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shipment, err := svc.Update(r.Context(), id, shipments.UpdateInput{
			Carrier:        body.Carrier,
			TrackingNumber: body.TrackingNumber,
			Status:         body.Status,
			ShippedAt:      body.ShippedAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Shipment updated.", map[string]any{"shipment": shipment})
	}
}

func ShipmentDelete(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "shipment")
			return
		}
		id, err := validators.PathID(r, "shipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Shipment deleted.", map[string]any{"id": id})
	}
}

func ShipmentItemList(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "shipment")
			return
		}
		shipmentID, err := validators.PathID(r, "shipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePage(r, shipments.ItemSort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListItems(r.Context(), shipmentID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Shipment items retrieved.", listPayload("items", page))
	}
}

func ShipmentItemGet(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "shipment")
			return
		}
		shipmentID, id, err := nestedIDs(r, "shipmentId", "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.GetItem(r.Context(), shipmentID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Shipment item retrieved.", map[string]any{"item": item})
	}
}

func ShipmentItemCreate(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "shipment")
			return
		}
		shipmentID, err := validators.PathID(r, "shipmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body createShipmentItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.CreateItem(r.Context(), shipmentID, shipments.ItemInput{
			OrderItemID:     body.OrderItemID,
			QuantityShipped: body.QuantityShipped,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Shipment item created.", map[string]any{"item": item})
	}
}

func ShipmentItemUpdate(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "shipment")
			return
		}
		shipmentID, id, err := nestedIDs(r, "shipmentId", "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateShipmentItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.UpdateItem(r.Context(), shipmentID, id, shipments.ItemUpdate{QuantityShipped: body.QuantityShipped})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Shipment item updated.", map[string]any{"item": item})
	}
}

func ShipmentItemDelete(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "shipment")
			return
		}
		shipmentID, id, err := nestedIDs(r, "shipmentId", "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteItem(r.Context(), shipmentID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Shipment item deleted.", map[string]any{"id": id})
	}
}
