package options

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

const (
	maxNameLength = 255
	maxSKULength  = 64
	priceScale    = 2
)

// Service manages product options, their variants and the SKUs built from
// variant combinations.
type Service interface {
	ListOptions(ctx context.Context, params pagination.Params, productID *int64) (pagination.Page[models.ProductOption], error)
	GetOption(ctx context.Context, id int64) (*models.ProductOption, error)
	CreateOption(ctx context.Context, input OptionInput) (*models.ProductOption, error)
	UpdateOption(ctx context.Context, id int64, input OptionUpdate) (*models.ProductOption, error)
	DeleteOption(ctx context.Context, id int64) error

	ListVariants(ctx context.Context, optionID int64, params pagination.Params) (pagination.Page[models.ProductOptionVariant], error)
	GetVariant(ctx context.Context, optionID, id int64) (*models.ProductOptionVariant, error)
	CreateVariant(ctx context.Context, optionID int64, input VariantInput) (*models.ProductOptionVariant, error)
	UpdateVariant(ctx context.Context, optionID, id int64, input VariantUpdate) (*models.ProductOptionVariant, error)
	DeleteVariant(ctx context.Context, optionID, id int64) error

	ListSKUs(ctx context.Context, params pagination.Params, productID *int64) (pagination.Page[models.ProductOptionSKU], error)
	GetSKU(ctx context.Context, id int64) (*models.ProductOptionSKU, error)
	CreateSKU(ctx context.Context, input SKUInput) (*models.ProductOptionSKU, error)
	UpdateSKU(ctx context.Context, id int64, input SKUUpdate) (*models.ProductOptionSKU, error)
	DeleteSKU(ctx context.Context, id int64) error
}

type repository interface {
	ProductExists(ctx context.Context, id int64) (bool, error)

	ListOptions(ctx context.Context, params pagination.Params, productID *int64) (pagination.Page[models.ProductOption], error)
	OptionsForProduct(ctx context.Context, productID int64) ([]models.ProductOption, error)
	FindOption(ctx context.Context, id int64) (*models.ProductOption, error)
	CreateOption(ctx context.Context, row *models.ProductOption) error
	UpdateOption(ctx context.Context, id int64, fields map[string]any) (*models.ProductOption, error)
	DeleteOption(ctx context.Context, id int64) error

	ListVariants(ctx context.Context, optionID int64, params pagination.Params) (pagination.Page[models.ProductOptionVariant], error)
	VariantsForOptions(ctx context.Context, optionIDs []int64) ([]models.ProductOptionVariant, error)
	FindVariant(ctx context.Context, optionID, id int64) (*models.ProductOptionVariant, error)
	CreateVariant(ctx context.Context, row *models.ProductOptionVariant) error
	UpdateVariant(ctx context.Context, optionID, id int64, fields map[string]any) (*models.ProductOptionVariant, error)
	DeleteVariant(ctx context.Context, optionID, id int64) error

	ListSKUs(ctx context.Context, params pagination.Params, productID *int64) (pagination.Page[models.ProductOptionSKU], error)
	FindSKU(ctx context.Context, id int64) (*models.ProductOptionSKU, error)
	CreateSKU(ctx context.Context, row *models.ProductOptionSKU) error
	UpdateSKU(ctx context.Context, id int64, fields map[string]any) (*models.ProductOptionSKU, error)
	DeleteSKU(ctx context.Context, id int64) error
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("options repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListOptions(ctx context.Context, params pagination.Params, productID *int64) (pagination.Page[models.ProductOption], error) {
	page, err := s.repo.ListOptions(ctx, params, productID)
	if err != nil {
		return page, db.Classify(err, "Product option", "list product options")
	}
	return page, nil
}

func (s *service) GetOption(ctx context.Context, id int64) (*models.ProductOption, error) {
	row, err := s.repo.FindOption(ctx, id)
	if err != nil {
		return nil, db.Classify(err, "Product option", "load product option")
	}
	return row, nil
}

func (s *service) CreateOption(ctx context.Context, input OptionInput) (*models.ProductOption, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	row := &models.ProductOption{ProductID: input.ProductID, Name: name}
	if err := s.repo.CreateOption(ctx, row); err != nil {
		return nil, db.Classify(err, "Product option", "create product option")
	}
	return row, nil
}

func (s *service) UpdateOption(ctx context.Context, id int64, input OptionUpdate) (*models.ProductOption, error) {
	fields := map[string]any{}
	if input.Name.Valid {
		name, err := requiredName(input.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	row, err := s.repo.UpdateOption(ctx, id, fields)
	if err != nil {
		return nil, db.Classify(err, "Product option", "update product option")
	}
	return row, nil
}

func (s *service) DeleteOption(ctx context.Context, id int64) error {
	if err := s.repo.DeleteOption(ctx, id); err != nil {
		return db.Classify(err, "Product option", "delete product option")
	}
	return nil
}

func (s *service) ListVariants(ctx context.Context, optionID int64, params pagination.Params) (pagination.Page[models.ProductOptionVariant], error) {
	if _, err := s.GetOption(ctx, optionID); err != nil {
		return pagination.Page[models.ProductOptionVariant]{}, err
	}
	page, err := s.repo.ListVariants(ctx, optionID, params)
	if err != nil {
		return page, db.Classify(err, "Variant", "list variants")
	}
	return page, nil
}

func (s *service) GetVariant(ctx context.Context, optionID, id int64) (*models.ProductOptionVariant, error) {
	row, err := s.repo.FindVariant(ctx, optionID, id)
	if err != nil {
		return nil, db.Classify(err, "Variant", "load variant")
	}
	return row, nil
}

func (s *service) CreateVariant(ctx context.Context, optionID int64, input VariantInput) (*models.ProductOptionVariant, error) {
	if _, err := s.GetOption(ctx, optionID); err != nil {
		return nil, err
	}
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.SortOrder < 0 {
		return nil, validationError("sort_order", "sort_order must be zero or greater")
	}
	row := &models.ProductOptionVariant{OptionID: optionID, Name: name, SortOrder: input.SortOrder}
	if err := s.repo.CreateVariant(ctx, row); err != nil {
		return nil, db.Classify(err, "Variant", "create variant")
	}
	return row, nil
}

func (s *service) UpdateVariant(ctx context.Context, optionID, id int64, input VariantUpdate) (*models.ProductOptionVariant, error) {
	fields := map[string]any{}
	if input.Name.Valid {
		name, err := requiredName(input.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if input.SortOrder.Valid {
		if input.SortOrder.Value == nil || *input.SortOrder.Value < 0 {
			return nil, validationError("sort_order", "sort_order must be zero or greater")
		}
		fields["sort_order"] = *input.SortOrder.Value
	}
	row, err := s.repo.UpdateVariant(ctx, optionID, id, fields)
	if err != nil {
		return nil, db.Classify(err, "Variant", "update variant")
	}
	return row, nil
}

func (s *service) DeleteVariant(ctx context.Context, optionID, id int64) error {
	if err := s.repo.DeleteVariant(ctx, optionID, id); err != nil {
		return db.Classify(err, "Variant", "delete variant")
	}
	return nil
}

func (s *service) ListSKUs(ctx context.Context, params pagination.Params, productID *int64) (pagination.Page[models.ProductOptionSKU], error) {
	page, err := s.repo.ListSKUs(ctx, params, productID)
	if err != nil {
		return page, db.Classify(err, "SKU", "list skus")
	}
	return page, nil
}

func (s *service) GetSKU(ctx context.Context, id int64) (*models.ProductOptionSKU, error) {
	row, err := s.repo.FindSKU(ctx, id)
	if err != nil {
		return nil, db.Classify(err, "SKU", "load sku")
	}
	return row, nil
}

func (s *service) CreateSKU(ctx context.Context, input SKUInput) (*models.ProductOptionSKU, error) {
	sku, err := normalizeSKU(input.SKU)
	if err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, validationError("price", "price must be zero or greater")
	}
	if err := s.ensureProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	selection, err := s.validateSelection(ctx, input.ProductID, input.Options)
	if err != nil {
		return nil, err
	}

	row := &models.ProductOptionSKU{
		ProductID: input.ProductID,
		SKU:       sku,
		Price:     input.Price.Round(priceScale),
		Options:   selection,
	}
	if err := s.repo.CreateSKU(ctx, row); err != nil {
		return nil, db.Classify(err, "SKU", "create sku")
	}
	return row, nil
}

func (s *service) UpdateSKU(ctx context.Context, id int64, input SKUUpdate) (*models.ProductOptionSKU, error) {
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
	if input.Price.Valid {
		if input.Price.Value == nil || input.Price.Value.IsNegative() {
			return nil, validationError("price", "price must be zero or greater")
		}
		fields["price"] = input.Price.Value.Round(priceScale)
	}
	if input.Options.Valid {
		current, err := s.GetSKU(ctx, id)
		if err != nil {
			return nil, err
		}
		var requested []models.SKUOption
		if input.Options.Value != nil {
			requested = *input.Options.Value
		}
		selection, err := s.validateSelection(ctx, current.ProductID, requested)
		if err != nil {
			return nil, err
		}
		fields["options"] = selection
	}

	row, err := s.repo.UpdateSKU(ctx, id, fields)
	if err != nil {
		return nil, db.Classify(err, "SKU", "update sku")
	}
	return row, nil
}

func (s *service) DeleteSKU(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSKU(ctx, id); err != nil {
		return db.Classify(err, "SKU", "delete sku")
	}
	return nil
}

// validateSelection checks that every pair names an option of productID and
// a variant of that option, with each option pinned at most once.
func (s *service) validateSelection(ctx context.Context, productID int64, selection []models.SKUOption) (types.JSONList[models.SKUOption], error) {
	out := make(types.JSONList[models.SKUOption], 0, len(selection))
	if len(selection) == 0 {
		return out, nil
	}

	opts, err := s.repo.OptionsForProduct(ctx, productID)
	if err != nil {
		return nil, db.Classify(err, "Product option", "load product options")
	}
	optionIDs := make([]int64, 0, len(opts))
	known := make(map[int64]struct{}, len(opts))
	for _, opt := range opts {
		optionIDs = append(optionIDs, opt.ID)
		known[opt.ID] = struct{}{}
	}
	variants, err := s.repo.VariantsForOptions(ctx, optionIDs)
	if err != nil {
		return nil, db.Classify(err, "Variant", "load variants")
	}
	variantOption := make(map[int64]int64, len(variants))
	for _, v := range variants {
		variantOption[v.ID] = v.OptionID
	}

	seen := make(map[int64]struct{}, len(selection))
	for i, pair := range selection {
		field := fmt.Sprintf("options[%d]", i)
		if _, ok := known[pair.OptionID]; !ok {
			return nil, validationError(field+".option_id", "option does not belong to the product")
		}
		if owner, ok := variantOption[pair.VariantID]; !ok || owner != pair.OptionID {
			return nil, validationError(field+".variant_id", "variant does not belong to the option")
		}
		if _, dup := seen[pair.OptionID]; dup {
			return nil, validationError(field+".option_id", "option is listed more than once")
		}
		seen[pair.OptionID] = struct{}{}
		out = append(out, pair)
	}
	return out, nil
}

func (s *service) ensureProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return validationError("product_id", "product_id is required")
	}
	ok, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return db.Classify(err, "Product", "check product")
	}
	if !ok {
		return validationError("product_id", "product_id references a missing product")
	}
	return nil
}

func requiredName(value types.Nullable[string]) (string, error) {
	if value.Value == nil {
		return "", validationError("name", "name cannot be null")
	}
	return normalizeName(*value.Value)
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

func validationError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
