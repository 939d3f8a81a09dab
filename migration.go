package graphline

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

// MigrationExecutor is the backend hook the migration runner drives.
type MigrationExecutor interface {
	// Exec executes a migration script.
	Exec(ctx context.Context, sql string) error
	// Version returns the current schema version, 0 for a fresh database.
	Version(ctx context.Context) (int, error)
	// SetVersion applies a migration and records its version in one transaction.
	SetVersion(ctx context.Context, sql string, version int) error
	// Lock acquires an exclusive lock for the duration of the migration run.
	Lock(ctx context.Context) error
	// Unlock releases the migration lock.
	Unlock(ctx context.Context) error
}

// Migration is one schema migration, read from an embedded migrations directory.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationRunner applies embedded SQL migrations in version order.
type MigrationRunner struct {
	executor     MigrationExecutor
	migrationsFS fs.FS
}

func NewMigrationRunner(executor MigrationExecutor, migrationsFS fs.FS) *MigrationRunner {
	return &MigrationRunner{
		executor:     executor,
		migrationsFS: migrationsFS,
	}
}

// Migrate runs all migrations newer than the database's current version.
func (mr *MigrationRunner) Migrate(ctx context.Context) error {
	if err := mr.executor.Lock(ctx); err != nil {
		return fmt.Errorf("migrate: acquire lock: %w", err)
	}
	defer func() {
		_ = mr.executor.Unlock(ctx)
	}()

	current, err := mr.executor.Version(ctx)
	if err != nil {
		return fmt.Errorf("migrate: get version: %w", err)
	}
	migrations, err := mr.migrations()
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := mr.executor.SetVersion(ctx, m.SQL, m.Version); err != nil {
			return fmt.Errorf("migrate: apply %d (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

func (mr *MigrationRunner) migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(mr.migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrate: read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, name, err := parseMigrationFilename(entry.Name())
		if err != nil {
			return nil, err
		}
		sqlBytes, err := fs.ReadFile(mr.migrationsFS, path.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("migrate: read %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{
			Version: version,
			Name:    name,
			SQL:     strings.TrimSpace(string(sqlBytes)),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// parseMigrationFilename extracts the version and name from a filename such
// as 0002_add_head_index.sql.
func parseMigrationFilename(filename string) (version int, name string, err error) {
	base := strings.TrimSuffix(filename, ".sql")
	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("migrate: invalid migration filename: %s", filename)
	}
	version, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("migrate: invalid version in filename %s: %w", filename, err)
	}
	name = strings.ReplaceAll(parts[1], "_", " ")
	return version, name, nil
}
