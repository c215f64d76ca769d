package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/superbox-backend/pkg/config"
	"github.com/angelmondragon/superbox-backend/pkg/db"
	"github.com/angelmondragon/superbox-backend/pkg/db/models"
	"github.com/angelmondragon/superbox-backend/pkg/logger"
)

// MaybeRunDev brings the ledger schema up on startup, but only in dev with
// SUPERBOX_AUTO_MIGRATE set. Production runs cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": string(client.Dialect())})

	steps, err := Apply(ctx, client)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "applied", len(steps)), "ledger schema up to date")
	return nil
}

// Apply migrates the ledger to the latest schema and leaves the connection
// open. Postgres runs the embedded goose files; sqlite cannot parse them and
// uses GORM AutoMigrate.
func Apply(ctx context.Context, client *db.Client) ([]Step, error) {
	if client.Dialect() == db.DialectSQLite {
		return nil, AutoMigrate(ctx, client)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return nil, fmt.Errorf("extracting sql.DB: %w", err)
	}
	runner, err := NewRunner(sqlDB, client.Dialect(), Migrations())
	if err != nil {
		return nil, err
	}
	return runner.Up(ctx)
}

// AutoMigrate creates the ledger tables from the GORM models.
func AutoMigrate(ctx context.Context, client *db.Client) error {
	if err := client.DB().WithContext(ctx).AutoMigrate(&models.PaymentSubmission{}); err != nil {
		return fmt.Errorf("auto-migrating payment submissions: %w", err)
	}
	return nil
}
