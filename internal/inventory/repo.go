package inventory

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/backoffice-api/internal/repo"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

type Repository struct {
	locations repo.Store[models.InventoryLocation]
	stock     repo.Store[models.InventoryProduct]
	products  repo.Store[models.Product]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		locations: repo.NewStore[models.InventoryLocation](db),
		stock:     repo.NewStore[models.InventoryProduct](db),
		products:  repo.NewStore[models.Product](db),
	}
}

func (r *Repository) ProductExists(ctx context.Context, id int64) (bool, error) {
	return r.products.Exists(ctx, id)
}

func (r *Repository) LocationExists(ctx context.Context, id int64) (bool, error) {
	return r.locations.Exists(ctx, id)
}

func (r *Repository) ListLocations(ctx context.Context, params pagination.Params) (pagination.Page[models.InventoryLocation], error) {
	return r.locations.List(ctx, params)
}

func (r *Repository) FindLocation(ctx context.Context, id int64) (*models.InventoryLocation, error) {
	return r.locations.FindByID(ctx, id)
}

func (r *Repository) CreateLocation(ctx context.Context, row *models.InventoryLocation) error {
	return r.locations.Create(ctx, row)
}

func (r *Repository) UpdateLocation(ctx context.Context, id int64, fields map[string]any) (*models.InventoryLocation, error) {
	return r.locations.Update(ctx, id, fields)
}

func (r *Repository) DeleteLocation(ctx context.Context, id int64) error {
	return r.locations.Delete(ctx, id)
}

func (r *Repository) CountStockAt(ctx context.Context, locationID int64) (int64, error) {
	return r.stock.Count(ctx, repo.Where("location_id = ?", locationID))
}

func (r *Repository) ListStock(ctx context.Context, params pagination.Params, filter StockFilter) (pagination.Page[models.InventoryProduct], error) {
	var scopes []repo.Scope
	if filter.ProductID != nil {
		scopes = append(scopes, repo.Where("product_id = ?", *filter.ProductID))
	}
	if filter.LocationID != nil {
		scopes = append(scopes, repo.Where("location_id = ?", *filter.LocationID))
	}
	return r.stock.List(ctx, params, scopes...)
}

func (r *Repository) FindStock(ctx context.Context, id int64) (*models.InventoryProduct, error) {
	return r.stock.FindByID(ctx, id)
}

// UpsertStock writes the quantity for a (product, location) pair with a
// single INSERT ... ON CONFLICT DO UPDATE and returns the stored row.
func (r *Repository) UpsertStock(ctx context.Context, productID, locationID int64, quantity int) (*models.InventoryProduct, error) {
	now := time.Now().UTC()
	row := &models.InventoryProduct{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := r.stock.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "location_id"}},
		DoUpdates: clause.Assignments(map[string]any{"quantity": quantity, "updated_at": now}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	var stored models.InventoryProduct
	if err := r.stock.DB(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *Repository) DeleteStock(ctx context.Context, id int64) error {
	return r.stock.Delete(ctx, id)
}
