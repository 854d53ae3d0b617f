package adminusers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/backoffice-api/internal/repo"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

// Repository exposes admin user persistence operations.
type Repository struct {
	store repo.Store[models.AdminUser]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{store: repo.NewStore[models.AdminUser](db)}
}

func (r *Repository) List(ctx context.Context, params pagination.Params) (pagination.Page[models.AdminUser], error) {
	return r.store.List(ctx, params)
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	return r.store.FindByID(ctx, id)
}

// FindByEmail expects an already normalized address.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.store.DB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Create(ctx context.Context, row *models.AdminUser) error {
	return r.store.Create(ctx, row)
}

func (r *Repository) Update(ctx context.Context, id int64, fields map[string]any) (*models.AdminUser, error) {
	return r.store.Update(ctx, id, fields)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, id)
}

// UpdateLastLogin refreshes last_login_at without touching updated_at.
func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.store.DB(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
