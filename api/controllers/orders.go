package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	"github.com/angelmondragon/backoffice-api/internal/orders"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

type createOrderRequest struct {
	CustomerID *int64  `json:"customer_id" validate:"omitempty,gt=0"`
	Status     string  `json:"status" validate:"omitempty,max=32"`
	Notes      *string `json:"notes"`
}

type updateOrderRequest struct {
	CustomerID types.Nullable[int64]  `json:"customer_id"`
	Status     types.Nullable[string] `json:"status"`
	Notes      types.Nullable[string] `json:"notes"`
}

type createOrderItemRequest struct {
	ProductID int64            `json:"product_id" validate:"required,gt=0"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	Price     *decimal.Decimal `json:"price"`
}

type updateOrderItemRequest struct {
	Quantity types.Nullable[int]             `json:"quantity"`
	Price    types.Nullable[decimal.Decimal] `json:"price"`
}

func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "order")
			return
		}
		params, err := validators.ParsePage(r, orders.Sort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Orders retrieved.", listPayload("orders", page))
	}
}

func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "order")
			return
		}
		id, err := validators.PathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Order retrieved.", map[string]any{"order": order})
	}
}

func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "order")
			return
		}
		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Create(r.Context(), orders.CreateInput{
			CustomerID: body.CustomerID,
			Status:     body.Status,
			Notes:      body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Order created.", map[string]any{"order": order})
	}
}

func OrderUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "order")
			return
		}
		id, err := validators.PathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Update(r.Context(), id, orders.UpdateInput{
			CustomerID: body.CustomerID,
			Status:     body.Status,
			Notes:      body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Order updated.", map[string]any{"order": order})
	}
}

func OrderDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "order")
			return
		}
		id, err := validators.PathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Order deleted.", map[string]any{"id": id})
	}
}

func OrderItemList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "order")
			return
		}
		orderID, err := validators.PathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePage(r, orders.ItemSort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListItems(r.Context(), orderID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Order items retrieved.", listPayload("items", page))
	}
}

func OrderItemGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "order")
			return
		}
		orderID, id, err := nestedIDs(r, "orderId", "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.GetItem(r.Context(), orderID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Order item retrieved.", map[string]any{"item": item})
	}
}

func OrderItemCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "order")
			return
		}
		orderID, err := validators.PathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body createOrderItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.CreateItem(r.Context(), orderID, orders.ItemInput{
			ProductID: body.ProductID,
			Quantity:  body.Quantity,
			Price:     body.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Order item created.", map[string]any{"item": item})
	}
}

func OrderItemUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "order")
			return
		}
		orderID, id, err := nestedIDs(r, "orderId", "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateOrderItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.UpdateItem(r.Context(), orderID, id, orders.ItemUpdate{Quantity: body.Quantity, Price: body.Price})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Order item updated.", map[string]any{"item": item})
	}
}

func OrderItemDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "order")
			return
		}
		orderID, id, err := nestedIDs(r, "orderId", "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteItem(r.Context(), orderID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Order item deleted.", map[string]any{"id": id})
	}
}
