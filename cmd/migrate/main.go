package main

import (
	"errors"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/migration"
	"github.com/leetguard/leetguard-server/internal/server"
)

func main() {
	command := flag.String("command", "up", "migration command (up/down/down-to/status/version/reset/create)")
	target := flag.Int64("version", 0, "target version for down-to")
	name := flag.String("name", "", "migration name for create")
	flag.Parse()

	if os.Getenv("APP_ENV") == "" {
		_ = os.Setenv("APP_ENV", server.EnvDevelopment)
	}

	log, err := server.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	if *command == "create" {
		if err := create(cfg.Database.MigrationsDir, *name, log); err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		return
	}

	migrator, err := migration.NewMigrator(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer migrator.Close()

	if err := run(migrator, *command, *target, log); err != nil {
		log.Fatal("Migration failed", zap.String("command", *command), zap.Error(err))
	}
}

func run(m *migration.Migrator, command string, target int64, log *zap.Logger) error {
	switch command {
	case "up":
		if err := m.Up(); err != nil {
			return err
		}
		log.Info("Successfully ran migrations")
	case "down":
		if err := m.Down(); err != nil {
			return err
		}
		log.Info("Successfully rolled back migrations")
	case "down-to":
		if err := m.DownTo(target); err != nil {
			return err
		}
		log.Info("Successfully migrated down", zap.Int64("version", target))
	case "status":
		return m.Status()
	case "version":
		version, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version", zap.Int64("version", version))
	case "reset":
		if err := m.Reset(); err != nil {
			return err
		}
		log.Info("Successfully reset migrations")
	default:
		log.Fatal("Unknown command", zap.String("command", command))
	}
	return nil
}

// create writes into the source tree, never into the embedded set.
func create(configured, name string, log *zap.Logger) error {
	if name == "" {
		return errors.New("-name is required")
	}
	dir, err := migration.SourceDir(configured)
	if err != nil {
		return err
	}
	if err := migration.Create(dir, name); err != nil {
		return err
	}
	log.Info("Created migration", zap.String("dir", dir), zap.String("name", name))
	return nil
}
