package db

import (
	"errors"
	"strings"

	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsNotFound reports whether err is gorm's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err is a unique constraint failure on
// postgres (pgx or lib/pq) or sqlite.
func IsUniqueViolation(err error) bool {
	return hasPGCode(err, pgUniqueViolation) ||
		containsAny(err, "duplicate key value", "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err is a referential integrity failure.
func IsForeignKeyViolation(err error) bool {
	return hasPGCode(err, pgForeignKeyViolation) ||
		containsAny(err, "violates foreign key constraint", "FOREIGN KEY constraint failed")
}

// Classify maps driver errors to typed API errors. Errors that are already
// typed pass through untouched; anything unrecognised becomes internal.
func Classify(err error, resource, operation string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	switch {
	case IsNotFound(err):
		return pkgerrors.NotFound(resource)
	case IsUniqueViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, resource+" already exists.")
	case IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, resource+" is referenced by or references a missing record.")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, operation+" failed")
	}
}

func hasPGCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}

func containsAny(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, needle := range needles {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
