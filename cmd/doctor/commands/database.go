package commands

import (
	"context"
	"database/sql"

	"github.com/teranos/doctor/am"
	"github.com/teranos/doctor/db"
	"github.com/teranos/doctor/errors"
	"github.com/teranos/doctor/logger"
	"github.com/teranos/doctor/recon"
	"github.com/teranos/doctor/registry"
)

// openDatabase opens and migrates the database at dbPath, or at database.path from
// config when dbPath is empty.
func openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		cfg, err := am.Load()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load configuration")
		}
		dbPath = cfg.Database.Path
	}
	if dbPath == "" {
		dbPath = am.DefaultDatabasePath
	}

	database, err := db.OpenWithMigrations(dbPath, logger.ComponentLogger("db"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}
	return database, nil
}

// loadIndex loads the class hierarchy named by cfg: an index file, the database, or
// nothing. A nil index with no error means no hierarchy is configured.
func loadIndex(ctx context.Context, cfg *am.Config) (*registry.Index, string, error) {
	log := logger.ComponentLogger("registry")

	switch {
	case cfg.Registry.Index != "":
		idx, err := registry.LoadFile(cfg.Registry.Index)
		if err != nil {
			return nil, "", err
		}
		if logger.ShouldOutput(logger.Verbosity, logger.OutputRegistry) {
			log.Infow("Loaded registry index", logger.FieldIndex, cfg.Registry.Index, logger.FieldTypes, idx.Len())
		}
		return idx, cfg.Registry.Index, nil

	case cfg.Registry.UseDatabase:
		database, err := openDatabase(cfg.Database.Path)
		if err != nil {
			return nil, "", err
		}
		defer database.Close()

		idx, err := registry.NewStore(database, log).Load(ctx)
		if err != nil {
			return nil, "", err
		}
		if idx.Len() == 0 {
			return nil, "", errors.WithHint(
				errors.NewNotFoundError("no types stored in %s", cfg.Database.Path),
				"run `doctor registry import <file>` first")
		}
		if logger.ShouldOutput(logger.Verbosity, logger.OutputRegistry) {
			log.Infow("Loaded registry from database", logger.FieldDatabase, cfg.Database.Path, logger.FieldTypes, idx.Len())
		}
		return idx, cfg.Database.Path, nil
	}

	log.Debugw("No registry configured, class and interface rules are disabled")
	return nil, "", nil
}

// engineRegistry adapts a possibly nil index for the engine.
func engineRegistry(idx *registry.Index) recon.Registry {
	if idx == nil {
		return recon.NopRegistry{}
	}
	return idx
}
