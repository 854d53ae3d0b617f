package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := FromGorm(db)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPingAndDialect(t *testing.T) {
	client := FromGorm(newTestDB(t))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if client.Dialect() != "sqlite" {
		t.Fatalf("unexpected dialect %q", client.Dialect())
	}
}

func TestClassifyUniqueViolationFromSQLite(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&testModel{Name: "dup"}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	err := db.Create(&testModel{Name: "dup"}).Error
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if !pkgerrors.IsCode(Classify(err, "Thing", "create thing"), pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict classification")
	}
}

func TestClassifyDriverErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want pkgerrors.Code
	}{
		{"not found", gorm.ErrRecordNotFound, pkgerrors.CodeNotFound},
		{"pgx unique", &pgconn.PgError{Code: "23505"}, pkgerrors.CodeConflict},
		{"pq foreign key", &pq.Error{Code: "23503"}, pkgerrors.CodeConflict},
		{"other", errors.New("connection reset"), pkgerrors.CodeInternal},
		{"typed passthrough", pkgerrors.New(pkgerrors.CodeValidation, "bad"), pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err, "Thing", "op")
			if !pkgerrors.IsCode(got, tc.want) {
				t.Fatalf("expected %s, got %v", tc.want, got)
			}
		})
	}
	if Classify(nil, "Thing", "op") != nil {
		t.Fatalf("nil should classify to nil")
	}
}
