package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/leetguard/leetguard-server/internal/config"
	"github.com/leetguard/leetguard-server/migrations"
)

var ErrNoURL = errors.New("database url is not configured")

// Migrator runs goose against the embedded migrations, or against
// database.migrations_dir when it is set.
type Migrator struct {
	db     *sql.DB
	source fs.FS
	dir    string
}

func NewMigrator(config *config.DatabaseConfig) (*Migrator, error) {
	if config.URL == "" {
		return nil, ErrNoURL
	}

	var source fs.FS = migrations.FS
	if config.MigrationsDir != "" {
		source = os.DirFS(config.MigrationsDir)
	}

	db, err := sql.Open("postgres", config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Migrator{
		db:     db,
		source: source,
		dir:    ".",
	}, nil
}

// prepare points goose's package-level state at this migrator's source.
func (m *Migrator) prepare() error {
	goose.SetBaseFS(m.source)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

func (m *Migrator) Up() error {
	if err := m.prepare(); err != nil {
		return err
	}
	if err := goose.Up(m.db, m.dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (m *Migrator) Down() error {
	if err := m.prepare(); err != nil {
		return err
	}
	if err := goose.Down(m.db, m.dir); err != nil {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}
	return nil
}

// DownTo rolls back to version. Only the migrate command does this.
func (m *Migrator) DownTo(version int64) error {
	if err := m.prepare(); err != nil {
		return err
	}
	if err := goose.DownTo(m.db, m.dir, version); err != nil {
		return fmt.Errorf("failed to migrate down to version %d: %w", version, err)
	}
	return nil
}

func (m *Migrator) Status() error {
	if err := m.prepare(); err != nil {
		return err
	}
	if err := goose.Status(m.db, m.dir); err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	return nil
}

// Reset rolls back every migration and applies them again.
func (m *Migrator) Reset() error {
	if err := m.prepare(); err != nil {
		return err
	}
	if err := goose.Reset(m.db, m.dir); err != nil {
		return fmt.Errorf("failed to reset migrations: %w", err)
	}
	return m.Up()
}

func (m *Migrator) Version() (int64, error) {
	if err := m.prepare(); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(m.db)
}

// LatestVersion is the highest version shipped with this binary.
func (m *Migrator) LatestVersion() (int64, error) {
	migrations, err := fs.Glob(m.source, "*.sql")
	if err != nil {
		return 0, err
	}

	var latest int64
	for _, name := range migrations {
		version, err := goose.NumericComponent(name)
		if err != nil {
			continue
		}
		latest = max(latest, version)
	}
	return latest, nil
}

func (m *Migrator) Close() error {
	return m.db.Close()
}

// Create writes a new sequentially numbered SQL migration into dir.
func Create(dir, name string) error {
	goose.SetBaseFS(nil)
	goose.SetSequential(true)
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	return nil
}
