package migrate

import (
	"context"
	"fmt"

	"github.com/bugie-app/bugie-backend/pkg/config"
	"github.com/bugie-app/bugie-backend/pkg/db"
	"github.com/bugie-app/bugie-backend/pkg/logger"
)

// MaybeRunDev prepares the schema on boot when the auto-migrate flag is enabled.
// SQLite databases are always prepared since they back local runs only.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client.Dialect() == db.DialectSQLite {
		return AutoMigrate(ctx, client, logg)
	}
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	fsys, err := Source("")
	if err != nil {
		return err
	}
	runner, err := NewRunner(sqlDB, fsys, logg)
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "applying embedded migrations on boot")
	return runner.Up(ctx)
}
