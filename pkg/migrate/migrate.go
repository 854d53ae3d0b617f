package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/backoffice-api/pkg/logger"
)

// DefaultDir is the on-disk location of the migrations, relative to the
// repository root. create and validate work against it.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Embedded returns the migrations compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(fmt.Sprintf("migrations sub fs: %v", err))
	}
	return sub
}

// Source returns the embedded migrations for an empty dir and the
// directory contents otherwise.
func Source(dir string) fs.FS {
	if dir == "" {
		return Embedded()
	}
	return os.DirFS(dir)
}

// Run applies up, down or status against a Postgres database. Every applied
// migration and every status row is logged.
func Run(ctx context.Context, db *sql.DB, fsys fs.FS, command string, logg *logger.Logger) error {
	provider, err := newProvider(db, fsys)
	if err != nil {
		return err
	}
	if logg == nil {
		logg = logger.Nop()
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		logResults(ctx, logg, results)
		if err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
	case "down":
		result, err := provider.Down(ctx)
		if result != nil {
			logResults(ctx, logg, []*goose.MigrationResult{result})
		}
		if err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		for _, st := range statuses {
			fields := map[string]any{"state": string(st.State)}
			if st.Source != nil {
				fields["version"] = st.Source.Version
				fields["path"] = st.Source.Path
			}
			if !st.AppliedAt.IsZero() {
				fields["applied_at"] = st.AppliedAt
			}
			logg.Info(logg.WithFields(ctx, fields), "migration.status")
		}
	default:
		return fmt.Errorf("unsupported goose command %q", command)
	}
	return nil
}

// MigrateToVersion moves the schema up or down to targetVersion
// (YYYYMMDDHHMMSS).
func MigrateToVersion(ctx context.Context, db *sql.DB, fsys fs.FS, targetVersion string, logg *logger.Logger) error {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil || target < 0 {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS)", targetVersion)
	}
	provider, err := newProvider(db, fsys)
	if err != nil {
		return err
	}
	if logg == nil {
		logg = logger.Nop()
	}

	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current == target:
		return nil
	case current < target:
		results, err = provider.UpTo(ctx, target)
	default:
		results, err = provider.DownTo(ctx, target)
	}
	logResults(ctx, logg, results)
	if err != nil {
		return fmt.Errorf("goose migrate %d -> %d: %w", current, target, err)
	}
	return nil
}

func newProvider(db *sql.DB, fsys fs.FS) (*goose.Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if fsys == nil {
		return nil, fmt.Errorf("migration source is required")
	}
	// the SQL files use postgres DDL; sqlite schemas go through AutoMigrate
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, nil
}

func logResults(ctx context.Context, logg *logger.Logger, results []*goose.MigrationResult) {
	for _, res := range results {
		if res == nil {
			continue
		}
		fields := map[string]any{
			"direction":   res.Direction,
			"duration_ms": res.Duration.Milliseconds(),
		}
		if res.Source != nil {
			fields["version"] = res.Source.Version
			fields["path"] = res.Source.Path
		}
		if res.Error != nil {
			logg.Error(logg.WithFields(ctx, fields), "migration.failed", res.Error)
			continue
		}
		logg.Info(logg.WithFields(ctx, fields), "migration.applied")
	}
}
