package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

const (
	locationResource = "Inventory location"
	stockResource    = "Inventory product"
	maxNameLength    = 255
)

// Service manages stock locations and per-location product quantities.
type Service interface {
	ListLocations(ctx context.Context, params pagination.Params) (pagination.Page[models.InventoryLocation], error)
	GetLocation(ctx context.Context, id int64) (*models.InventoryLocation, error)
	CreateLocation(ctx context.Context, input LocationInput) (*models.InventoryLocation, error)
	UpdateLocation(ctx context.Context, id int64, input LocationUpdate) (*models.InventoryLocation, error)
	DeleteLocation(ctx context.Context, id int64) error

	ListStock(ctx context.Context, params pagination.Params, filter StockFilter) (pagination.Page[models.InventoryProduct], error)
	GetStock(ctx context.Context, id int64) (*models.InventoryProduct, error)
	SetStock(ctx context.Context, input StockInput) (*models.InventoryProduct, error)
	DeleteStock(ctx context.Context, id int64) error
}

type repository interface {
	ProductExists(ctx context.Context, id int64) (bool, error)
	LocationExists(ctx context.Context, id int64) (bool, error)

	ListLocations(ctx context.Context, params pagination.Params) (pagination.Page[models.InventoryLocation], error)
	FindLocation(ctx context.Context, id int64) (*models.InventoryLocation, error)
	CreateLocation(ctx context.Context, row *models.InventoryLocation) error
	UpdateLocation(ctx context.Context, id int64, fields map[string]any) (*models.InventoryLocation, error)
	DeleteLocation(ctx context.Context, id int64) error
	CountStockAt(ctx context.Context, locationID int64) (int64, error)

	ListStock(ctx context.Context, params pagination.Params, filter StockFilter) (pagination.Page[models.InventoryProduct], error)
	FindStock(ctx context.Context, id int64) (*models.InventoryProduct, error)
	UpsertStock(ctx context.Context, productID, locationID int64, quantity int) (*models.InventoryProduct, error)
	DeleteStock(ctx context.Context, id int64) error
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListLocations(ctx context.Context, params pagination.Params) (pagination.Page[models.InventoryLocation], error) {
	page, err := s.repo.ListLocations(ctx, params)
	if err != nil {
		return page, db.Classify(err, locationResource, "list locations")
	}
	return page, nil
}

func (s *service) GetLocation(ctx context.Context, id int64) (*models.InventoryLocation, error) {
	row, err := s.repo.FindLocation(ctx, id)
	if err != nil {
		return nil, db.Classify(err, locationResource, "load location")
	}
	return row, nil
}

func (s *service) CreateLocation(ctx context.Context, input LocationInput) (*models.InventoryLocation, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	row := &models.InventoryLocation{Name: name, Address: trimOptional(input.Address)}
	if err := s.repo.CreateLocation(ctx, row); err != nil {
		return nil, db.Classify(err, locationResource, "create location")
	}
	return row, nil
}

func (s *service) UpdateLocation(ctx context.Context, id int64, input LocationUpdate) (*models.InventoryLocation, error) {
	fields := map[string]any{}
	if input.Name.Valid {
		if input.Name.Value == nil {
			return nil, validationError("name", "name cannot be null")
		}
		name, err := normalizeName(*input.Name.Value)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if input.Address.Valid {
		if address := trimOptional(input.Address.Value); address != nil {
			fields["address"] = *address
		} else {
			fields["address"] = nil
		}
	}
	row, err := s.repo.UpdateLocation(ctx, id, fields)
	if err != nil {
		return nil, db.Classify(err, locationResource, "update location")
	}
	return row, nil
}

// DeleteLocation refuses locations that still hold stock rows.
func (s *service) DeleteLocation(ctx context.Context, id int64) error {
	if _, err := s.GetLocation(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountStockAt(ctx, id)
	if err != nil {
		return db.Classify(err, locationResource, "count stock")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "Inventory location still holds stock.").
			WithDetails(map[string]any{"inventory_products": count})
	}
	if err := s.repo.DeleteLocation(ctx, id); err != nil {
		return db.Classify(err, locationResource, "delete location")
	}
	return nil
}

func (s *service) ListStock(ctx context.Context, params pagination.Params, filter StockFilter) (pagination.Page[models.InventoryProduct], error) {
	page, err := s.repo.ListStock(ctx, params, filter)
	if err != nil {
		return page, db.Classify(err, stockResource, "list inventory")
	}
	return page, nil
}

func (s *service) GetStock(ctx context.Context, id int64) (*models.InventoryProduct, error) {
	row, err := s.repo.FindStock(ctx, id)
	if err != nil {
		return nil, db.Classify(err, stockResource, "load inventory")
	}
	return row, nil
}

func (s *service) SetStock(ctx context.Context, input StockInput) (*models.InventoryProduct, error) {
	if input.Quantity < 0 {
		return nil, validationError("quantity", "quantity must be zero or greater")
	}
	if err := s.ensure(ctx, "product_id", input.ProductID, s.repo.ProductExists); err != nil {
		return nil, err
	}
	if err := s.ensure(ctx, "location_id", input.LocationID, s.repo.LocationExists); err != nil {
		return nil, err
	}
	row, err := s.repo.UpsertStock(ctx, input.ProductID, input.LocationID, input.Quantity)
	if err != nil {
		return nil, db.Classify(err, stockResource, "upsert inventory")
	}
	return row, nil
}

func (s *service) DeleteStock(ctx context.Context, id int64) error {
	if err := s.repo.DeleteStock(ctx, id); err != nil {
		return db.Classify(err, stockResource, "delete inventory")
	}
	return nil
}

func (s *service) ensure(ctx context.Context, field string, id int64, exists func(context.Context, int64) (bool, error)) error {
	if id <= 0 {
		return validationError(field, field+" is required")
	}
	ok, err := exists(ctx, id)
	if err != nil {
		return db.Classify(err, stockResource, "check "+field)
	}
	if !ok {
		return validationError(field, field+" references a missing record")
	}
	return nil
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", validationError("name", "name is required")
	}
	if len(name) > maxNameLength {
		return "", validationError("name", fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	return name, nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validationError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
