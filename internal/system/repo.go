package system

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
	db          *gorm.DB
	preferences repo.Store[models.SystemPreference]
	audit       repo.Store[models.AuditLog]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		preferences: repo.NewStore[models.SystemPreference](db),
		audit:       repo.NewStore[models.AuditLog](db),
	}
}

func (r *Repository) ListPreferences(ctx context.Context, params pagination.Params) (pagination.Page[models.SystemPreference], error) {
	return r.preferences.List(ctx, params)
}

func (r *Repository) FindPreference(ctx context.Context, key string) (*models.SystemPreference, error) {
	var row models.SystemPreference
	if err := r.preferences.DB(ctx).Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertPreference stores value under key in one statement.
func (r *Repository) UpsertPreference(ctx context.Context, key, value string) (*models.SystemPreference, error) {
	now := time.Now().UTC()
	row := &models.SystemPreference{Key: key, Value: value, CreatedAt: now, UpdatedAt: now}
	err := r.preferences.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{"value": value, "updated_at": now}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.FindPreference(ctx, key)
}

func (r *Repository) DeletePreference(ctx context.Context, key string) error {
	res := r.preferences.DB(ctx).Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).Delete(&models.SystemPreference{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) AppendAudit(ctx context.Context, row *models.AuditLog) error {
	return r.audit.Create(ctx, row)
}

func (r *Repository) ListAudit(ctx context.Context, params pagination.Params, filter AuditFilter) (pagination.Page[models.AuditLog], error) {
	var scopes []repo.Scope
	if filter.AdminUserID != nil {
		scopes = append(scopes, repo.Where("admin_user_id = ?", *filter.AdminUserID))
	}
	if filter.Resource != "" {
		scopes = append(scopes, repo.Where("resource = ?", filter.Resource))
	}
	return r.audit.List(ctx, params, scopes...)
}

// CountRows returns the row count of a table from the fixed model list.
func (r *Repository) CountRows(ctx context.Context, table string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(table).Count(&count).Error
	return count, err
}
