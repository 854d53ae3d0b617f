package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

const (
	resourceName  = "Product"
	maxSKULength  = 64
	maxNameLength = 255
	maxMediaItems = 20
	priceScale    = 2
)

var allowedMediaTypes = map[string]struct{}{
	"image": {},
	"video": {},
}

// Service exposes catalog product management.
type Service interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[models.Product], error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type repository interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[models.Product], error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, row *models.Product) error
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[models.Product], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return page, db.Classify(err, resourceName, "list products")
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Product, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, resourceName, "load product")
	}
	return row, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	sku, err := normalizeSKU(input.SKU)
	if err != nil {
		return nil, err
	}
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	media, err := normalizeMedia(input.ProductMedia)
	if err != nil {
		return nil, err
	}

	row := &models.Product{
		SKU:          sku,
		Name:         name,
		Description:  trimOptional(input.Description),
		Price:        input.Price.Round(priceScale),
		SaleStart:    input.SaleStart,
		SaleEnd:      input.SaleEnd,
		ProductMedia: media,
	}
	if input.SalePrice != nil {
		row.SalePrice = decimal.NewNullDecimal(input.SalePrice.Round(priceScale))
	}
	if err := validatePricing(row); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, db.Classify(err, resourceName, "create product")
	}
	return row, nil
}

// Update applies the supplied fields on top of the stored row so pricing and
// sale window rules are checked against the merged result.
func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*models.Product, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, resourceName, "load product")
	}
	merged := *current
	fields := map[string]any{}

	if input.SKU.Valid {
		if input.SKU.Value == nil {
			return nil, validationError("sku", "sku cannot be null")
		}
		sku, err := normalizeSKU(*input.SKU.Value)
		if err != nil {
			return nil, err
		}
		fields["sku"] = sku
	}
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
	if input.Description.Valid {
		fields["description"] = columnOrNil(trimOptional(input.Description.Value))
	}
	if input.Price.Valid {
		if input.Price.Value == nil {
			return nil, validationError("price", "price cannot be null")
		}
		merged.Price = input.Price.Value.Round(priceScale)
		fields["price"] = merged.Price
	}
	if input.SalePrice.Valid {
		merged.SalePrice = decimal.NullDecimal{}
		if input.SalePrice.Value != nil {
			merged.SalePrice = decimal.NewNullDecimal(input.SalePrice.Value.Round(priceScale))
		}
		fields["sale_price"] = merged.SalePrice
	}
	if input.SaleStart.Valid {
		merged.SaleStart = input.SaleStart.Value
		fields["sale_start"] = timeColumn(merged.SaleStart)
	}
	if input.SaleEnd.Valid {
		merged.SaleEnd = input.SaleEnd.Value
		fields["sale_end"] = timeColumn(merged.SaleEnd)
	}
	if input.ProductMedia.Valid {
		var items []models.ProductMediaItem
		if input.ProductMedia.Value != nil {
			items = *input.ProductMedia.Value
		}
		media, err := normalizeMedia(items)
		if err != nil {
			return nil, err
		}
		fields["product_media"] = media
	}

	if err := validatePricing(&merged); err != nil {
		return nil, err
	}

	row, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, db.Classify(err, resourceName, "update product")
	}
	return row, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.Classify(err, resourceName, "delete product")
	}
	return nil
}

// validatePricing enforces price >= 0, 0 <= sale_price <= price and a sale
// window whose end follows its start.
func validatePricing(p *models.Product) error {
	if p.Price.IsNegative() {
		return validationError("price", "price must be zero or greater")
	}
	if p.SalePrice.Valid {
		if p.SalePrice.Decimal.IsNegative() {
			return validationError("sale_price", "sale_price must be zero or greater")
		}
		if p.SalePrice.Decimal.GreaterThan(p.Price) {
			return validationError("sale_price", "sale_price cannot exceed price")
		}
	}
	if p.SaleStart != nil && p.SaleEnd != nil && !p.SaleEnd.After(*p.SaleStart) {
		return validationError("sale_end", "sale_end must be after sale_start")
	}
	return nil
}

func normalizeSKU(raw string) (string, error) {
	sku := strings.TrimSpace(raw)
	if sku == "" {
		return "", validationError("sku", "sku is required")
	}
	if len(sku) > maxSKULength {
		return "", validationError("sku", fmt.Sprintf("sku must be at most %d characters", maxSKULength))
	}
	return sku, nil
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

func normalizeMedia(items []models.ProductMediaItem) (types.JSONList[models.ProductMediaItem], error) {
	if len(items) > maxMediaItems {
		return nil, validationError("product_media", fmt.Sprintf("product_media accepts at most %d items", maxMediaItems))
	}
	out := make(types.JSONList[models.ProductMediaItem], 0, len(items))
	for i, item := range items {
		item.URL = strings.TrimSpace(item.URL)
		item.Type = strings.ToLower(strings.TrimSpace(item.Type))
		item.Alt = strings.TrimSpace(item.Alt)
		if item.URL == "" {
			return nil, validationError(fmt.Sprintf("product_media[%d].url", i), "url is required")
		}
		if _, ok := allowedMediaTypes[item.Type]; !ok {
			return nil, validationError(fmt.Sprintf("product_media[%d].type", i), "type must be image or video")
		}
		out = append(out, item)
	}
	return out, nil
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

func columnOrNil(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func timeColumn(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC()
}

func validationError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
