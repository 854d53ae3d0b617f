package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/backoffice-api/internal/repo"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

type Repository struct {
	store repo.Store[models.Product]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{store: repo.NewStore[models.Product](db)}
}

func (r *Repository) List(ctx context.Context, params pagination.Params) (pagination.Page[models.Product], error) {
	return r.store.List(ctx, params)
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	return r.store.FindByID(ctx, id)
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.store.Exists(ctx, id)
}

func (r *Repository) Create(ctx context.Context, row *models.Product) error {
	return r.store.Create(ctx, row)
}

func (r *Repository) Update(ctx context.Context, id int64, fields map[string]any) (*models.Product, error) {
	return r.store.Update(ctx, id, fields)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, id)
}
