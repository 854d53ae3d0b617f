package options

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/backoffice-api/internal/repo"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

// Repository persists options, their variants and SKUs.
type Repository struct {
	db       *gorm.DB
	products repo.Store[models.Product]
	options  repo.Store[models.ProductOption]
	variants repo.Store[models.ProductOptionVariant]
	skus     repo.Store[models.ProductOptionSKU]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		products: repo.NewStore[models.Product](db),
		options:  repo.NewStore[models.ProductOption](db),
		variants: repo.NewStore[models.ProductOptionVariant](db),
		skus:     repo.NewStore[models.ProductOptionSKU](db),
	}
}

func productScope(productID *int64) []repo.Scope {
	if productID == nil {
		return nil
	}
	return []repo.Scope{repo.Where("product_id = ?", *productID)}
}

func optionScope(optionID int64) repo.Scope {
	return repo.Where("option_id = ?", optionID)
}

func (r *Repository) ProductExists(ctx context.Context, id int64) (bool, error) {
	return r.products.Exists(ctx, id)
}

func (r *Repository) ListOptions(ctx context.Context, params pagination.Params, productID *int64) (pagination.Page[models.ProductOption], error) {
	return r.options.List(ctx, params, productScope(productID)...)
}

func (r *Repository) OptionsForProduct(ctx context.Context, productID int64) ([]models.ProductOption, error) {
	return r.options.All(ctx, productScope(&productID)...)
}

func (r *Repository) FindOption(ctx context.Context, id int64) (*models.ProductOption, error) {
	return r.options.FindByID(ctx, id)
}

func (r *Repository) CreateOption(ctx context.Context, row *models.ProductOption) error {
	return r.options.Create(ctx, row)
}

func (r *Repository) UpdateOption(ctx context.Context, id int64, fields map[string]any) (*models.ProductOption, error) {
	return r.options.Update(ctx, id, fields)
}

// DeleteOption removes the option together with its variants.
func (r *Repository) DeleteOption(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("option_id = ?", id).Delete(&models.ProductOptionVariant{}).Error; err != nil {
			return err
		}
		return r.options.WithTx(tx).Delete(ctx, id)
	})
}

func (r *Repository) ListVariants(ctx context.Context, optionID int64, params pagination.Params) (pagination.Page[models.ProductOptionVariant], error) {
	return r.variants.List(ctx, params, optionScope(optionID))
}

func (r *Repository) VariantsForOptions(ctx context.Context, optionIDs []int64) ([]models.ProductOptionVariant, error) {
	if len(optionIDs) == 0 {
		return []models.ProductOptionVariant{}, nil
	}
	return r.variants.All(ctx, repo.Where("option_id IN ?", optionIDs))
}

// FindVariant returns gorm.ErrRecordNotFound when the variant belongs to a
// different option.
func (r *Repository) FindVariant(ctx context.Context, optionID, id int64) (*models.ProductOptionVariant, error) {
	return r.variants.FindByID(ctx, id, optionScope(optionID))
}

func (r *Repository) CreateVariant(ctx context.Context, row *models.ProductOptionVariant) error {
	return r.variants.Create(ctx, row)
}

func (r *Repository) UpdateVariant(ctx context.Context, optionID, id int64, fields map[string]any) (*models.ProductOptionVariant, error) {
	return r.variants.Update(ctx, id, fields, optionScope(optionID))
}

func (r *Repository) DeleteVariant(ctx context.Context, optionID, id int64) error {
	return r.variants.Delete(ctx, id, optionScope(optionID))
}

func (r *Repository) ListSKUs(ctx context.Context, params pagination.Params, productID *int64) (pagination.Page[models.ProductOptionSKU], error) {
	return r.skus.List(ctx, params, productScope(productID)...)
}

func (r *Repository) FindSKU(ctx context.Context, id int64) (*models.ProductOptionSKU, error) {
	return r.skus.FindByID(ctx, id)
}

func (r *Repository) CreateSKU(ctx context.Context, row *models.ProductOptionSKU) error {
	return r.skus.Create(ctx, row)
}

func (r *Repository) UpdateSKU(ctx context.Context, id int64, fields map[string]any) (*models.ProductOptionSKU, error) {
	return r.skus.Update(ctx, id, fields)
}

func (r *Repository) DeleteSKU(ctx context.Context, id int64) error {
	return r.skus.Delete(ctx, id)
}
