package sqlitegraph

import (
	"context"
	"embed"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// executor implements graphline.MigrationExecutor for SQLite. The schema
// version is tracked in pragma user_version. The pool serialises writers, so
// the migration lock is a no-op.
type executor struct {
	pool *sqlitex.Pool
}

func (e *executor) Exec(ctx context.Context, sql string) error {
	conn, err := e.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer e.pool.Put(conn)
	return sqlitex.ExecScript(conn, sql)
}

func (e *executor) Version(ctx context.Context) (int, error) {
	conn, err := e.pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer e.pool.Put(conn)

	var version int
	opts := &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			version = int(stmt.ColumnInt64(0))
			return nil
		},
	}
	err = sqlitex.Execute(conn, `pragma user_version;`, opts)
	return version, err
}

func (e *executor) SetVersion(ctx context.Context, sql string, version int) error {
	conn, err := e.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer e.pool.Put(conn)
	// ExecScript wraps the script in a savepoint, so the migration and the
	// version bump apply together.
	script := fmt.Sprintf("%s\npragma user_version = %d;", sql, version)
	return sqlitex.ExecScript(conn, script)
}

func (e *executor) Lock(ctx context.Context) error {
	return nil
}

func (e *executor) Unlock(ctx context.Context) error {
	return nil
}
