package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/okmusi/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the configured storage backend.
//
// SQLite gets the embedded migrations; PostgreSQL and Redis are connected once so their schema
// and reachability are checked.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}
	shared.ApplyEnv(config)

	if err := config.Validate(); err != nil {
		return err
	}

	switch config.Storage.Driver {
	case shared.DriverSQLite:
		return r.setupSQLite(config, cmd.Bool("status"), cmd.Bool("rollback"))
	case shared.DriverMemory:
		return r.writePlain("✓ memory storage needs no setup\n")
	}

	r.logger.Info("checking storage", "driver", config.Storage.Driver)
	_, closeStore, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	closeStore()
	return r.writePlain("✓ %s storage ready\n", config.Storage.Driver)
}

func (r *Runner) setupSQLite(config *shared.Config, status, rollback bool) error {
	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	switch {
	case rollback:
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		r.logger.Info("rolled back latest migration")
		return r.writePlain("✓ Rolled back latest migration\n")

	case status:
		migrations, err := shared.Migrations(db)
		if err != nil {
			return fmt.Errorf("failed to read migrations: %w", err)
		}
		r.writePlainHeader("Migrations: " + config.Database.Path)
		for _, m := range migrations {
			mark := "✗"
			if m.Applied {
				mark = "✓"
			}
			r.writePlain("%s %04d %s\n", mark, m.Version, m.Name)
		}
		return nil
	}

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ Database ready at %s (%d migrations applied)\n", config.Database.Path, applied)
}

// SetupConfig writes the embedded config template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Config written to %s\n", path)
}
