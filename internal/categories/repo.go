package categories

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/backoffice-api/internal/repo"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

// Repository persists product categories.
type Repository struct {
	store repo.Store[models.ProductCategory]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{store: repo.NewStore[models.ProductCategory](db)}
}

func (r *Repository) List(ctx context.Context, params pagination.Params) (pagination.Page[models.ProductCategory], error) {
	return r.store.List(ctx, params)
}

func (r *Repository) All(ctx context.Context) ([]models.ProductCategory, error) {
	return r.store.All(ctx)
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.ProductCategory, error) {
	return r.store.FindByID(ctx, id)
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.store.Exists(ctx, id)
}

func (r *Repository) Create(ctx context.Context, row *models.ProductCategory) error {
	return r.store.Create(ctx, row)
}

func (r *Repository) Update(ctx context.Context, id int64, fields map[string]any) (*models.ProductCategory, error) {
	return r.store.Update(ctx, id, fields)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, id)
}

// Count returns the number of categories.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx)
}

// Children returns the direct children of id.
func (r *Repository) Children(ctx context.Context, id int64) ([]models.ProductCategory, error) {
	return r.store.All(ctx, repo.Where("parent_category_id = ?", id))
}

// CountChildren returns how many categories name id as their parent.
func (r *Repository) CountChildren(ctx context.Context, id int64) (int64, error) {
	return r.store.Count(ctx, repo.Where("parent_category_id = ?", id))
}
