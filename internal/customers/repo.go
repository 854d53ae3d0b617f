package customers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/backoffice-api/internal/repo"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

type Repository struct {
	store repo.Store[models.Customer]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{store: repo.NewStore[models.Customer](db)}
}

func (r *Repository) List(ctx context.Context, params pagination.Params) (pagination.Page[models.Customer], error) {
	return r.store.List(ctx, params)
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Customer, error) {
	return r.store.FindByID(ctx, id)
}

// FindByEmail expects an already normalized address.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.store.DB(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) Create(ctx context.Context, row *models.Customer) error {
	return r.store.Create(ctx, row)
}

func (r *Repository) Update(ctx context.Context, id int64, fields map[string]any) (*models.Customer, error) {
	return r.store.Update(ctx, id, fields)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, id)
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.store.DB(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
