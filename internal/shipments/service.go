package shipments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

const (
	resourceName     = "Shipment"
	itemResource     = "Shipment item"
	maxCarrierLength = 100
	maxTrackingBytes = 100
)

// Service manages shipments and the order lines they carry.
type Service interface {
	List(ctx context.Context, params pagination.Params, orderID *int64) (pagination.Page[models.Shipment], error)
	Get(ctx context.Context, id int64) (*models.Shipment, error)
	Create(ctx context.Context, input CreateInput) (*models.Shipment, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*models.Shipment, error)
	Delete(ctx context.Context, id int64) error

	ListItems(ctx context.Context, shipmentID int64, params pagination.Params) (pagination.Page[models.ShipmentItem], error)
	GetItem(ctx context.Context, shipmentID, id int64) (*models.ShipmentItem, error)
	CreateItem(ctx context.Context, shipmentID int64, input ItemInput) (*models.ShipmentItem, error)
	UpdateItem(ctx context.Context, shipmentID, id int64, input ItemUpdate) (*models.ShipmentItem, error)
	DeleteItem(ctx context.Context, shipmentID, id int64) error
}

type repository interface {
	OrderExists(ctx context.Context, id int64) (bool, error)
	FindOrderItem(ctx context.Context, id int64) (*models.OrderItem, error)
	ShippedQuantity(ctx context.Context, orderItemID, excludeItemID int64) (int, error)

	List(ctx context.Context, params pagination.Params, orderID *int64) (pagination.Page[models.Shipment], error)
	FindByID(ctx context.Context, id int64) (*models.Shipment, error)
	Create(ctx context.Context, row *models.Shipment) error
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Shipment, error)
	Delete(ctx context.Context, id int64) error

	ListItems(ctx context.Context, shipmentID int64, params pagination.Params) (pagination.Page[models.ShipmentItem], error)
	FindItem(ctx context.Context, shipmentID, id int64) (*models.ShipmentItem, error)
	CreateItem(ctx context.Context, row *models.ShipmentItem) error
	UpdateItem(ctx context.Context, shipmentID, id int64, fields map[string]any) (*models.ShipmentItem, error)
	DeleteItem(ctx context.Context, shipmentID, id int64) error
}

type service struct {
	repo repository
	now  func() time.Time
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shipment repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, orderID *int64) (pagination.Page[models.Shipment], error) {
	page, err := s.repo.List(ctx, params, orderID)
	if err != nil {
		return page, db.Classify(err, resourceName, "list shipments")
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Shipment, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, resourceName, "load shipment")
	}
	return row, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Shipment, error) {
	if input.OrderID <= 0 {
		return nil, validationError("order_id", "order_id is required")
	}
	ok, err := s.repo.OrderExists(ctx, input.OrderID)
	if err != nil {
		return nil, db.Classify(err, "Order", "check order")
	}
	if !ok {
		return nil, validationError("order_id", "order_id references a missing order")
	}
	carrier, err := normalizeCarrier(input.Carrier)
	if err != nil {
		return nil, err
	}
	tracking, err := normalizeTracking(input.TrackingNumber)
	if err != nil {
		return nil, err
	}
	status := enums.ShipmentStatusPending
	if strings.TrimSpace(input.Status) != "" {
		if status, err = parseStatus(input.Status); err != nil {
			return nil, err
		}
	}

	row := &models.Shipment{
		OrderID:        input.OrderID,
		Carrier:        carrier,
		TrackingNumber: tracking,
		Status:         status,
		ShippedAt:      input.ShippedAt,
	}
	if row.ShippedAt == nil && status != enums.ShipmentStatusPending {
		now := s.now().UTC()
		row.ShippedAt = &now
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, db.Classify(err, resourceName, "create shipment")
	}
	return row, nil
}

// Update stamps shipped_at when a shipment leaves pending without one.
func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*models.Shipment, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Carrier.Valid {
		if input.Carrier.Value == nil {
			return nil, validationError("carrier", "carrier cannot be null")
		}
		carrier, err := normalizeCarrier(*input.Carrier.Value)
		if err != nil {
			return nil, err
		}
		fields["carrier"] = carrier
	}
	if input.TrackingNumber.Valid {
		tracking, err := normalizeTracking(input.TrackingNumber.Value)
		if err != nil {
			return nil, err
		}
		if tracking == nil {
			fields["tracking_number"] = nil
		} else {
			fields["tracking_number"] = *tracking
		}
	}
	shippedAt := current.ShippedAt
	if input.ShippedAt.Valid {
		shippedAt = input.ShippedAt.Value
		if shippedAt == nil {
			fields["shipped_at"] = nil
		} else {
			fields["shipped_at"] = shippedAt.UTC()
		}
	}
	if input.Status.Valid {
		if input.Status.Value == nil {
			return nil, validationError("status", "status cannot be null")
		}
		status, err := parseStatus(*input.Status.Value)
		if err != nil {
			return nil, err
		}
		fields["status"] = status
		if status != enums.ShipmentStatusPending && shippedAt == nil {
			fields["shipped_at"] = s.now().UTC()
		}
	}

	row, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, db.Classify(err, resourceName, "update shipment")
	}
	return row, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.Classify(err, resourceName, "delete shipment")
	}
	return nil
}

func (s *service) ListItems(ctx context.Context, shipmentID int64, params pagination.Params) (pagination.Page[models.ShipmentItem], error) {
	if _, err := s.Get(ctx, shipmentID); err != nil {
		return pagination.Page[models.ShipmentItem]{}, err
	}
	page, err := s.repo.ListItems(ctx, shipmentID, params)
	if err != nil {
		return page, db.Classify(err, itemResource, "list shipment items")
	}
	return page, nil
}

func (s *service) GetItem(ctx context.Context, shipmentID, id int64) (*models.ShipmentItem, error) {
	row, err := s.repo.FindItem(ctx, shipmentID, id)
	if err != nil {
		return nil, db.Classify(err, itemResource, "load shipment item")
	}
	return row, nil
}

func (s *service) CreateItem(ctx context.Context, shipmentID int64, input ItemInput) (*models.ShipmentItem, error) {
	shipment, err := s.Get(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if input.QuantityShipped <= 0 {
		return nil, validationError("quantity_shipped", "quantity_shipped must be greater than zero")
	}
	if err := s.checkOrderItem(ctx, shipment.OrderID, input.OrderItemID, 0, input.QuantityShipped); err != nil {
		return nil, err
	}

	row := &models.ShipmentItem{
		ShipmentID:      shipmentID,
		OrderItemID:     input.OrderItemID,
		QuantityShipped: input.QuantityShipped,
	}
	if err := s.repo.CreateItem(ctx, row); err != nil {
		return nil, db.Classify(err, itemResource, "create shipment item")
	}
	return row, nil
}

func (s *service) UpdateItem(ctx context.Context, shipmentID, id int64, input ItemUpdate) (*models.ShipmentItem, error) {
	fields := map[string]any{}
	if input.QuantityShipped.Valid {
		if input.QuantityShipped.Value == nil || *input.QuantityShipped.Value <= 0 {
			return nil, validationError("quantity_shipped", "quantity_shipped must be greater than zero")
		}
		current, err := s.GetItem(ctx, shipmentID, id)
		if err != nil {
			return nil, err
		}
		shipment, err := s.Get(ctx, shipmentID)
		if err != nil {
			return nil, err
		}
		if err := s.checkOrderItem(ctx, shipment.OrderID, current.OrderItemID, current.ID, *input.QuantityShipped.Value); err != nil {
			return nil, err
		}
		fields["quantity_shipped"] = *input.QuantityShipped.Value
	}

	row, err := s.repo.UpdateItem(ctx, shipmentID, id, fields)
	if err != nil {
		return nil, db.Classify(err, itemResource, "update shipment item")
	}
	return row, nil
}

func (s *service) DeleteItem(ctx context.Context, shipmentID, id int64) error {
	if err := s.repo.DeleteItem(ctx, shipmentID, id); err != nil {
		return db.Classify(err, itemResource, "delete shipment item")
	}
	return nil
}

// checkOrderItem requires the line to belong to orderID and the quantity
// shipped across all shipments to stay within the ordered quantity.
func (s *service) checkOrderItem(ctx context.Context, orderID, orderItemID, excludeItemID int64, quantity int) error {
	if orderItemID <= 0 {
		return validationError("order_item_id", "order_item_id is required")
	}
	line, err := s.repo.FindOrderItem(ctx, orderItemID)
	if db.IsNotFound(err) {
		return validationError("order_item_id", "order_item_id references a missing order item")
	}
	if err != nil {
		return db.Classify(err, "Order item", "load order item")
	}
	if line.OrderID != orderID {
		return validationError("order_item_id", "order item does not belong to the shipment's order")
	}
	shipped, err := s.repo.ShippedQuantity(ctx, orderItemID, excludeItemID)
	if err != nil {
		return db.Classify(err, itemResource, "sum shipped quantity")
	}
	if shipped+quantity > line.Quantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity_shipped exceeds the remaining ordered quantity").
			WithDetails(map[string]any{"field": "quantity_shipped", "ordered": line.Quantity, "already_shipped": shipped})
	}
	return nil
}

func normalizeCarrier(raw string) (string, error) {
	carrier := strings.TrimSpace(raw)
	if carrier == "" {
		return "", validationError("carrier", "carrier is required")
	}
	if len(carrier) > maxCarrierLength {
		return "", validationError("carrier", fmt.Sprintf("carrier must be at most %d characters", maxCarrierLength))
	}
	return carrier, nil
}

func normalizeTracking(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	tracking := strings.TrimSpace(*raw)
	if tracking == "" {
		return nil, nil
	}
	if len(tracking) > maxTrackingBytes {
		return nil, validationError("tracking_number", fmt.Sprintf("tracking_number must be at most %d characters", maxTrackingBytes))
	}
	return &tracking, nil
}

func parseStatus(raw string) (enums.ShipmentStatus, error) {
	status, err := enums.ParseShipmentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return "", validationError("status", "status must be one of pending, shipped, delivered")
	}
	return status, nil
}

func validationError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
