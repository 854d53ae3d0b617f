package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

const (
	resourceName  = "Order"
	itemResource  = "Order item"
	maxNotesBytes = 2000
	priceScale    = 2
)

// Service manages orders and their line items.
type Service interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[models.Order], error)
	Get(ctx context.Context, id int64) (*models.Order, error)
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*models.Order, error)
	Delete(ctx context.Context, id int64) error

	ListItems(ctx context.Context, orderID int64, params pagination.Params) (pagination.Page[models.OrderItem], error)
	GetItem(ctx context.Context, orderID, id int64) (*models.OrderItem, error)
	CreateItem(ctx context.Context, orderID int64, input ItemInput) (*models.OrderItem, error)
	UpdateItem(ctx context.Context, orderID, id int64, input ItemUpdate) (*models.OrderItem, error)
	DeleteItem(ctx context.Context, orderID, id int64) error
}

type repository interface {
	CustomerExists(ctx context.Context, id int64) (bool, error)
	FindProduct(ctx context.Context, id int64) (*models.Product, error)
	CountShipments(ctx context.Context, orderID int64) (int64, error)
	ShippedQuantity(ctx context.Context, orderItemID int64) (int, error)

	List(ctx context.Context, params pagination.Params) (pagination.Page[models.Order], error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	Create(ctx context.Context, row *models.Order) error
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Order, error)
	Delete(ctx context.Context, id int64) error

	ListItems(ctx context.Context, orderID int64, params pagination.Params) (pagination.Page[models.OrderItem], error)
	FindItem(ctx context.Context, orderID, id int64) (*models.OrderItem, error)
	CreateItem(ctx context.Context, row *models.OrderItem) error
	UpdateItem(ctx context.Context, orderID, id int64, fields map[string]any) (*models.OrderItem, error)
	DeleteItem(ctx context.Context, orderID, id int64) error
}

type service struct {
	repo repository
	now  func() time.Time
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[models.Order], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return page, db.Classify(err, resourceName, "list orders")
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Order, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, resourceName, "load order")
	}
	return row, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	status := enums.OrderStatusPending
	if strings.TrimSpace(input.Status) != "" {
		parsed, err := parseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	if input.CustomerID != nil {
		if err := s.ensureCustomer(ctx, *input.CustomerID); err != nil {
			return nil, err
		}
	}
	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return nil, err
	}

	row := &models.Order{
		CustomerID: input.CustomerID,
		Status:     status,
		Total:      decimal.Zero,
		Notes:      notes,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, db.Classify(err, resourceName, "create order")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*models.Order, error) {
	fields := map[string]any{}
	if input.Status.Valid {
		if input.Status.Value == nil {
			return nil, validationError("status", "status cannot be null")
		}
		status, err := parseStatus(*input.Status.Value)
		if err != nil {
			return nil, err
		}
		fields["status"] = status
	}
	if input.CustomerID.Valid {
		if input.CustomerID.Value != nil {
			if err := s.ensureCustomer(ctx, *input.CustomerID.Value); err != nil {
				return nil, err
			}
		}
		fields["customer_id"] = input.CustomerID.Column()
	}
	if input.Notes.Valid {
		notes, err := normalizeNotes(input.Notes.Value)
		if err != nil {
			return nil, err
		}
		if notes == nil {
			fields["notes"] = nil
		} else {
			fields["notes"] = *notes
		}
	}

	row, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, db.Classify(err, resourceName, "update order")
	}
	return row, nil
}

// Delete refuses orders that already have shipments.
func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	shipments, err := s.repo.CountShipments(ctx, id)
	if err != nil {
		return db.Classify(err, resourceName, "count shipments")
	}
	if shipments > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "Order has shipments and cannot be deleted.").
			WithDetails(map[string]any{"shipments": shipments})
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.Classify(err, resourceName, "delete order")
	}
	return nil
}

func (s *service) ListItems(ctx context.Context, orderID int64, params pagination.Params) (pagination.Page[models.OrderItem], error) {
	if _, err := s.Get(ctx, orderID); err != nil {
		return pagination.Page[models.OrderItem]{}, err
	}
	page, err := s.repo.ListItems(ctx, orderID, params)
	if err != nil {
		return page, db.Classify(err, itemResource, "list order items")
	}
	return page, nil
}

func (s *service) GetItem(ctx context.Context, orderID, id int64) (*models.OrderItem, error) {
	row, err := s.repo.FindItem(ctx, orderID, id)
	if err != nil {
		return nil, db.Classify(err, itemResource, "load order item")
	}
	return row, nil
}

func (s *service) CreateItem(ctx context.Context, orderID int64, input ItemInput) (*models.OrderItem, error) {
	if _, err := s.Get(ctx, orderID); err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, validationError("quantity", "quantity must be greater than zero")
	}
	if input.ProductID <= 0 {
		return nil, validationError("product_id", "product_id is required")
	}
	product, err := s.repo.FindProduct(ctx, input.ProductID)
	if db.IsNotFound(err) {
		return nil, validationError("product_id", "product_id references a missing product")
	}
	if err != nil {
		return nil, db.Classify(err, "Product", "load product")
	}

	price := EffectivePrice(product, s.now())
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, validationError("price", "price must be zero or greater")
		}
		price = input.Price.Round(priceScale)
	}

	row := &models.OrderItem{
		OrderID:   orderID,
		ProductID: product.ID,
		Quantity:  input.Quantity,
		Price:     price,
	}
	if err := s.repo.CreateItem(ctx, row); err != nil {
		return nil, db.Classify(err, itemResource, "create order item")
	}
	return row, nil
}

func (s *service) UpdateItem(ctx context.Context, orderID, id int64, input ItemUpdate) (*models.OrderItem, error) {
	fields := map[string]any{}
	if input.Quantity.Valid {
		if input.Quantity.Value == nil || *input.Quantity.Value <= 0 {
			return nil, validationError("quantity", "quantity must be greater than zero")
		}
		if err := s.ensureNotBelowShipped(ctx, orderID, id, *input.Quantity.Value); err != nil {
			return nil, err
		}
		fields["quantity"] = *input.Quantity.Value
	}
	if input.Price.Valid {
		if input.Price.Value == nil || input.Price.Value.IsNegative() {
			return nil, validationError("price", "price must be zero or greater")
		}
		fields["price"] = input.Price.Value.Round(priceScale)
	}

	row, err := s.repo.UpdateItem(ctx, orderID, id, fields)
	if err != nil {
		return nil, db.Classify(err, itemResource, "update order item")
	}
	return row, nil
}

// ensureNotBelowShipped rejects an ordered quantity smaller than what
// shipments already carry for the line.
func (s *service) ensureNotBelowShipped(ctx context.Context, orderID, id int64, quantity int) error {
	if _, err := s.repo.FindItem(ctx, orderID, id); err != nil {
		return db.Classify(err, itemResource, "load order item")
	}
	shipped, err := s.repo.ShippedQuantity(ctx, id)
	if err != nil {
		return db.Classify(err, itemResource, "sum shipped quantity")
	}
	if quantity < shipped {
		return validationError("quantity", fmt.Sprintf("quantity cannot be lower than the %d units already shipped", shipped))
	}
	return nil
}

func (s *service) DeleteItem(ctx context.Context, orderID, id int64) error {
	if err := s.repo.DeleteItem(ctx, orderID, id); err != nil {
		return db.Classify(err, itemResource, "delete order item")
	}
	return nil
}

// EffectivePrice is the sale price while the sale window is open, the list
// price otherwise. Open-ended windows are open on that side.
func EffectivePrice(p *models.Product, at time.Time) decimal.Decimal {
	if !p.SalePrice.Valid {
		return p.Price
	}
	if p.SaleStart != nil && at.Before(*p.SaleStart) {
		return p.Price
	}
	if p.SaleEnd != nil && !at.Before(*p.SaleEnd) {
		return p.Price
	}
	return p.SalePrice.Decimal
}

func (s *service) ensureCustomer(ctx context.Context, id int64) error {
	ok, err := s.repo.CustomerExists(ctx, id)
	if err != nil {
		return db.Classify(err, "Customer", "check customer")
	}
	if !ok {
		return validationError("customer_id", "customer_id references a missing customer")
	}
	return nil
}

func parseStatus(raw string) (enums.OrderStatus, error) {
	status, err := enums.ParseOrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return "", validationError("status", "status must be one of pending, paid, shipped, completed, cancelled")
	}
	return status, nil
}

func normalizeNotes(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	notes := strings.TrimSpace(*raw)
	if notes == "" {
		return nil, nil
	}
	if len(notes) > maxNotesBytes {
		return nil, validationError("notes", fmt.Sprintf("notes must be at most %d bytes", maxNotesBytes))
	}
	return &notes, nil
}

func validationError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
