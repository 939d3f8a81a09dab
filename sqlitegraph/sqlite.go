// Package sqlitegraph stores a graph in SQLite, keyed by (tail, head) arc
// pairs.
package sqlitegraph

import (
	"context"
	"fmt"

	"github.com/graphline/graphline"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func New(pool *sqlitex.Pool) *Store {
	return &Store{Pool: pool}
}

type Store struct {
	Pool *sqlitex.Pool
}

func (s *Store) Init(ctx context.Context) error {
	runner := graphline.NewMigrationRunner(&executor{pool: s.Pool}, migrationsFS)
	return runner.Migrate(ctx)
}

func (s *Store) queryNodes(ctx context.Context, sql string, args map[string]any) (nodes []graphline.NodeID, err error) {
	conn, err := s.Pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Pool.Put(conn)
	opts := &sqlitex.ExecOptions{
		Named: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			nodes = append(nodes, graphline.NodeID(stmt.ColumnInt64(0)))
			return nil
		},
	}
	if err = sqlitex.Execute(conn, sql, opts); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return nodes, nil
}

func (s *Store) queryScalar(ctx context.Context, sql string, args map[string]any) (v int64, err error) {
	conn, err := s.Pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer s.Pool.Put(conn)
	opts := &sqlitex.ExecOptions{
		Named: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			v = stmt.ColumnInt64(0)
			return nil
		},
	}
	if err = sqlitex.Execute(conn, sql, opts); err != nil {
		return 0, fmt.Errorf("query: %w", err)
	}
	return v, nil
}

func (s *Store) AddArcs(ctx context.Context, arcs []graphline.Arc) (added int, err error) {
	conn, err := s.Pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer s.Pool.Put(conn)
	defer sqlitex.Transaction(conn)(&err)

	for _, arc := range arcs {
		execErr := sqlitex.Execute(conn, `insert into arcs (tail, head) values (:tail, :head) on conflict do nothing;`, &sqlitex.ExecOptions{
			Named: map[string]any{
				":tail": int64(arc.Tail),
				":head": int64(arc.Head),
			},
		})
		if execErr != nil {
			return 0, fmt.Errorf("addarcs: %w", execErr)
		}
		added += conn.Changes()
	}
	return added, nil
}

func (s *Store) RemoveArcs(ctx context.Context, arcs []graphline.Arc) (removed int, err error) {
	conn, err := s.Pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer s.Pool.Put(conn)
	defer sqlitex.Transaction(conn)(&err)

	for _, arc := range arcs {
		execErr := sqlitex.Execute(conn, `delete from arcs where tail = :tail and head = :head;`, &sqlitex.ExecOptions{
			Named: map[string]any{
				":tail": int64(arc.Tail),
				":head": int64(arc.Head),
			},
		})
		if execErr != nil {
			return 0, fmt.Errorf("removearcs: %w", execErr)
		}
		removed += conn.Changes()
	}
	return removed, nil
}

func (s *Store) Successors(ctx context.Context, node graphline.NodeID) ([]graphline.NodeID, error) {
	nodes, err := s.queryNodes(ctx, `select head from arcs where tail = :node order by head;`, map[string]any{
		":node": int64(node),
	})
	if err != nil {
		return nil, fmt.Errorf("successors: %w", err)
	}
	return nodes, nil
}

func (s *Store) Predecessors(ctx context.Context, node graphline.NodeID) ([]graphline.NodeID, error) {
	nodes, err := s.queryNodes(ctx, `select tail from arcs where head = :node order by tail;`, map[string]any{
		":node": int64(node),
	})
	if err != nil {
		return nil, fmt.Errorf("predecessors: %w", err)
	}
	return nodes, nil
}

func (s *Store) ReplaceSuccessors(ctx context.Context, node graphline.NodeID, heads []graphline.NodeID) (err error) {
	conn, err := s.Pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.Pool.Put(conn)
	defer sqlitex.Transaction(conn)(&err)

	if err := sqlitex.Execute(conn, `delete from arcs where tail = :node;`, &sqlitex.ExecOptions{
		Named: map[string]any{":node": int64(node)},
	}); err != nil {
		return fmt.Errorf("replacesuccessors: %w", err)
	}
	for _, head := range heads {
		if err := sqlitex.Execute(conn, `insert into arcs (tail, head) values (:tail, :head) on conflict do nothing;`, &sqlitex.ExecOptions{
			Named: map[string]any{
				":tail": int64(node),
				":head": int64(head),
			},
		}); err != nil {
			return fmt.Errorf("replacesuccessors: %w", err)
		}
	}
	return nil
}

func (s *Store) ReplacePredecessors(ctx context.Context, node graphline.NodeID, tails []graphline.NodeID) (err error) {
	conn, err := s.Pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.Pool.Put(conn)
	defer sqlitex.Transaction(conn)(&err)

	if err := sqlitex.Execute(conn, `delete from arcs where head = :node;`, &sqlitex.ExecOptions{
		Named: map[string]any{":node": int64(node)},
	}); err != nil {
		return fmt.Errorf("replacepredecessors: %w", err)
	}
	for _, tail := range tails {
		if err := sqlitex.Execute(conn, `insert into arcs (tail, head) values (:tail, :head) on conflict do nothing;`, &sqlitex.ExecOptions{
			Named: map[string]any{
				":tail": int64(tail),
				":head": int64(node),
			},
		}); err != nil {
			return fmt.Errorf("replacepredecessors: %w", err)
		}
	}
	return nil
}

func (s *Store) Roots(ctx context.Context) ([]graphline.NodeID, error) {
	nodes, err := s.queryNodes(ctx, `select distinct tail from arcs where tail not in (select head from arcs) order by tail;`, nil)
	if err != nil {
		return nil, fmt.Errorf("roots: %w", err)
	}
	return nodes, nil
}

func (s *Store) Leaves(ctx context.Context) ([]graphline.NodeID, error) {
	nodes, err := s.queryNodes(ctx, `select distinct head from arcs where head not in (select tail from arcs) order by head;`, nil)
	if err != nil {
		return nil, fmt.Errorf("leaves: %w", err)
	}
	return nodes, nil
}

func (s *Store) Stats(ctx context.Context) (stats graphline.Stats, err error) {
	stats.Nodes, err = s.queryScalar(ctx, `select count(*) from (select tail as node from arcs union select head from arcs);`, nil)
	if err != nil {
		return stats, fmt.Errorf("stats: %w", err)
	}
	stats.Arcs, err = s.queryScalar(ctx, `select count(*) from arcs;`, nil)
	if err != nil {
		return stats, fmt.Errorf("stats: %w", err)
	}
	return stats, nil
}

func (s *Store) Clear(ctx context.Context) error {
	conn, err := s.Pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.Pool.Put(conn)
	if err := sqlitex.Execute(conn, `delete from arcs;`, nil); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}
