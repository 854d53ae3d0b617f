package repo

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope narrows a query, e.g. to the children of a parent resource.
type Scope = func(*gorm.DB) *gorm.DB

// Where builds a Scope from a condition.
func Where(query any, args ...any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Store is the generic CRUD repository shared by the flat resources.
type Store[T any] struct {
	Base
}

func NewStore[T any](db *gorm.DB) Store[T] {
	return Store[T]{Base: NewBase(db)}
}

// WithTx returns a copy bound to the provided transaction.
func (s Store[T]) WithTx(tx *gorm.DB) Store[T] {
	return Store[T]{Base: NewBase(tx)}
}

// List returns one page of rows ordered by an allowlisted column plus the
// total count of rows matching the scopes. params must already be normalized.
func (s Store[T]) List(ctx context.Context, params pagination.Params, scopes ...Scope) (pagination.Page[T], error) {
	page := pagination.Page[T]{Page: params.Page, Limit: pagination.NormalizeLimit(params.Limit), Rows: []T{}}

	if err := s.DB(ctx).Model(new(T)).Scopes(scopes...).Count(&page.Total).Error; err != nil {
		return pagination.Page[T]{}, err
	}

	query := s.DB(ctx).Scopes(scopes...)
	if params.OrderBy != "" {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: params.OrderBy}, Desc: params.Desc()})
	}
	if params.OrderBy != "id" {
		query = query.Order("id")
	}
	if err := query.Offset(params.Offset()).Limit(page.Limit).Find(&page.Rows).Error; err != nil {
		return pagination.Page[T]{}, err
	}
	return page, nil
}

// All returns every row matching the scopes ordered by id.
func (s Store[T]) All(ctx context.Context, scopes ...Scope) ([]T, error) {
	rows := []T{}
	if err := s.DB(ctx).Scopes(scopes...).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID returns gorm.ErrRecordNotFound when no row matches.
func (s Store[T]) FindByID(ctx context.Context, id int64, scopes ...Scope) (*T, error) {
	var row T
	if err := s.DB(ctx).Scopes(scopes...).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Exists reports whether a row with id matches the scopes.
func (s Store[T]) Exists(ctx context.Context, id int64, scopes ...Scope) (bool, error) {
	var count int64
	if err := s.DB(ctx).Model(new(T)).Scopes(scopes...).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the number of rows matching the scopes.
func (s Store[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var count int64
	err := s.DB(ctx).Model(new(T)).Scopes(scopes...).Count(&count).Error
	return count, err
}

func (s Store[T]) Create(ctx context.Context, row *T) error {
	return s.DB(ctx).Create(row).Error
}

// Update writes only the supplied columns and returns the fresh row. Column
// names come from the caller's allowlist, never from request keys.
func (s Store[T]) Update(ctx context.Context, id int64, fields map[string]any, scopes ...Scope) (*T, error) {
	if len(fields) > 0 {
		values := make(map[string]any, len(fields)+1)
		for k, v := range fields {
			values[k] = v
		}
		values["updated_at"] = time.Now().UTC()

		res := s.DB(ctx).Model(new(T)).Scopes(scopes...).Where("id = ?", id).Updates(values)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return s.FindByID(ctx, id, scopes...)
}

// Delete returns gorm.ErrRecordNotFound when nothing was removed.
func (s Store[T]) Delete(ctx context.Context, id int64, scopes ...Scope) error {
	res := s.DB(ctx).Scopes(scopes...).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports gorm's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
