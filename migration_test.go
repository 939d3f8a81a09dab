package graphline

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
)

var testMigrationsFS = fstest.MapFS{
	"migrations/0001_create_arcs.sql":        {Data: []byte("create table arcs (tail integer, head integer);")},
	"migrations/0002_index_arcs_by_head.sql": {Data: []byte("create index arcs_by_head on arcs (head, tail);")},
}

type fakeExecutor struct {
	version int
	applied []int
	locked  bool
	lockErr error
}

func (f *fakeExecutor) Exec(ctx context.Context, sql string) error {
	return nil
}

func (f *fakeExecutor) Version(ctx context.Context) (int, error) {
	return f.version, nil
}

func (f *fakeExecutor) SetVersion(ctx context.Context, sql string, version int) error {
	f.applied = append(f.applied, version)
	f.version = version
	return nil
}

func (f *fakeExecutor) Lock(ctx context.Context) error {
	if f.lockErr != nil {
		return f.lockErr
	}
	f.locked = true
	return nil
}

func (f *fakeExecutor) Unlock(ctx context.Context) error {
	f.locked = false
	return nil
}

func TestMigrationFilenames(t *testing.T) {
	version, name, err := parseMigrationFilename("0002_index_arcs_by_head.sql")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
	if name != "index arcs by head" {
		t.Errorf("unexpected name %q", name)
	}
	if _, _, err := parseMigrationFilename("nounderscore.sql"); err == nil {
		t.Error("expected error for missing version prefix")
	}
	if _, _, err := parseMigrationFilename("x_bad.sql"); err == nil {
		t.Error("expected error for non-numeric version")
	}
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies all migrations in order", func(t *testing.T) {
		exec := &fakeExecutor{}
		runner := NewMigrationRunner(exec, testMigrationsFS)
		if err := runner.Migrate(ctx); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		if len(exec.applied) != 2 || exec.applied[0] != 1 || exec.applied[1] != 2 {
			t.Errorf("expected [1 2], got %v", exec.applied)
		}
		if exec.locked {
			t.Error("expected lock to be released")
		}
	})
	t.Run("skips applied migrations", func(t *testing.T) {
		exec := &fakeExecutor{version: 1}
		runner := NewMigrationRunner(exec, testMigrationsFS)
		if err := runner.Migrate(ctx); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		if len(exec.applied) != 1 || exec.applied[0] != 2 {
			t.Errorf("expected [2], got %v", exec.applied)
		}
	})
	t.Run("lock failure aborts", func(t *testing.T) {
		exec := &fakeExecutor{lockErr: errors.New("busy")}
		runner := NewMigrationRunner(exec, testMigrationsFS)
		if err := runner.Migrate(ctx); err == nil {
			t.Fatal("expected error when the lock cannot be acquired")
		}
	})
}
