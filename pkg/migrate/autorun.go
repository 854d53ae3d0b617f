package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/backoffice-api/pkg/config"
	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
)

// MaybeRunDev migrates the schema at boot when running in dev with the
// auto-migrate flag on. Postgres goes through goose; sqlite through gorm
// AutoMigrate of the models.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})

	if cfg.FeatureFlags.UseSQLite {
		logg.Info(ctx, "running AutoMigrate (sqlite dev)")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running embedded goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, Embedded(), "up", logg); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
