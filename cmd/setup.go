package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase opens the configured store, which runs sqlite migrations or creates the postgres schema.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Database
	r.logger.Info("initializing database", "driver", cfg.Driver, "path", cfg.Path)

	m, err := r.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	switch cfg.Driver {
	case shared.DriverSQLite:
		r.logger.Infof("setup complete for database: %v", cfg.Path)
	case shared.DriverPostgres:
		r.logger.Info("setup complete for postgres database")
	default:
		r.logger.Info("nothing to set up for the in-memory store")
	}
	return r.writePlain("Database ready (%s, %d movies).\n", cfg.Driver, m.Count(ctx))
}

// SetupConfig writes the embedded default config to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set database.driver (sqlite, postgres or memory)\n")
	r.writePlain("2. Run 'moviedb setup database' to initialize the store\n")
	return nil
}
