package system

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

const (
	preferenceResource = "Preference"
	maxValueBytes      = 10000
)

var preferenceKeyRe = regexp.MustCompile(`^[A-Za-z0-9_.\-]{1,100}$`)

// Service exposes system preferences, the audit trail and store status.
type Service interface {
	ListPreferences(ctx context.Context, params pagination.Params) (pagination.Page[models.SystemPreference], error)
	GetPreference(ctx context.Context, key string) (*models.SystemPreference, error)
	SetPreference(ctx context.Context, key, value string) (*models.SystemPreference, error)
	DeletePreference(ctx context.Context, key string) error

	Append(ctx context.Context, entry models.AuditLog) error
	ListAudit(ctx context.Context, params pagination.Params, filter AuditFilter) (pagination.Page[models.AuditLog], error)

	DatabaseStatus(ctx context.Context) DatabaseStatus
}

// Pinger is a store that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type repository interface {
	ListPreferences(ctx context.Context, params pagination.Params) (pagination.Page[models.SystemPreference], error)
	FindPreference(ctx context.Context, key string) (*models.SystemPreference, error)
	UpsertPreference(ctx context.Context, key, value string) (*models.SystemPreference, error)
	DeletePreference(ctx context.Context, key string) error
	AppendAudit(ctx context.Context, row *models.AuditLog) error
	ListAudit(ctx context.Context, params pagination.Params, filter AuditFilter) (pagination.Page[models.AuditLog], error)
	CountRows(ctx context.Context, table string) (int64, error)
}

// ServiceParams bundles the system service dependencies. Redis may be nil.
type ServiceParams struct {
	Repo     repository
	Database Pinger
	Dialect  string
	Redis    Pinger
	Logger   *logger.Logger
}

type service struct {
	repo    repository
	db      Pinger
	dialect string
	redis   Pinger
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("system repository required")
	}
	if params.Database == nil {
		return nil, fmt.Errorf("database pinger required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	return &service{
		repo:    params.Repo,
		db:      params.Database,
		dialect: params.Dialect,
		redis:   params.Redis,
		logg:    params.Logger,
	}, nil
}

func (s *service) ListPreferences(ctx context.Context, params pagination.Params) (pagination.Page[models.SystemPreference], error) {
	page, err := s.repo.ListPreferences(ctx, params)
	if err != nil {
		return page, db.Classify(err, preferenceResource, "list preferences")
	}
	return page, nil
}

func (s *service) GetPreference(ctx context.Context, key string) (*models.SystemPreference, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindPreference(ctx, key)
	if err != nil {
		return nil, db.Classify(err, preferenceResource, "load preference")
	}
	return row, nil
}

func (s *service) SetPreference(ctx context.Context, key, value string) (*models.SystemPreference, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	if len(value) > maxValueBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("value must be at most %d bytes", maxValueBytes)).
			WithDetails(map[string]any{"field": "value"})
	}
	row, err := s.repo.UpsertPreference(ctx, key, value)
	if err != nil {
		return nil, db.Classify(err, preferenceResource, "save preference")
	}
	return row, nil
}

func (s *service) DeletePreference(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePreference(ctx, key); err != nil {
		return db.Classify(err, preferenceResource, "delete preference")
	}
	return nil
}

// Append stores one audit entry. Entries are never updated.
func (s *service) Append(ctx context.Context, entry models.AuditLog) error {
	entry.ID = 0
	if strings.TrimSpace(entry.Action) == "" || strings.TrimSpace(entry.Resource) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "audit entries need an action and a resource")
	}
	if err := s.repo.AppendAudit(ctx, &entry); err != nil {
		return db.Classify(err, "Audit log", "append audit log")
	}
	return nil
}

func (s *service) ListAudit(ctx context.Context, params pagination.Params, filter AuditFilter) (pagination.Page[models.AuditLog], error) {
	page, err := s.repo.ListAudit(ctx, params, filter)
	if err != nil {
		return page, db.Classify(err, "Audit log", "list audit logs")
	}
	return page, nil
}

// DatabaseStatus probes every store and collects failures instead of
// stopping at the first one.
func (s *service) DatabaseStatus(ctx context.Context) DatabaseStatus {
	status := DatabaseStatus{
		Database: DatabaseProbe{Dialect: s.dialect, Tables: map[string]int64{}},
		Errors:   []string{},
	}
	var errs error

	start := time.Now()
	if err := s.db.Ping(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("database ping: %w", err))
	} else {
		status.Database.Connected = true
		status.Database.LatencyMS = time.Since(start).Milliseconds()
		for _, table := range models.TableNames() {
			count, err := s.repo.CountRows(ctx, table)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("count %s: %w", table, err))
				continue
			}
			status.Database.Tables[table] = count
		}
	}

	if s.redis != nil {
		status.Redis.Configured = true
		start = time.Now()
		if err := s.redis.Ping(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("redis ping: %w", err))
		} else {
			status.Redis.Connected = true
			status.Redis.LatencyMS = time.Since(start).Milliseconds()
		}
	}

	for _, err := range multierr.Errors(errs) {
		status.Errors = append(status.Errors, err.Error())
	}
	status.Healthy = errs == nil
	if errs != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", errs.Error()), "system.database_status.degraded")
	}
	return status
}

func normalizeKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if !preferenceKeyRe.MatchString(key) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "key must be 1-100 characters of letters, digits, '.', '_' or '-'").
			WithDetails(map[string]any{"field": "key"})
	}
	return key, nil
}
