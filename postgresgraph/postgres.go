package postgresgraph

import (
	"context"
	"fmt"

	_ "embed"

	"github.com/graphline/graphline"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores arcs in a PostgreSQL table.
type Postgres struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Postgres {
	return &Postgres{
		Pool: pool,
	}
}

//go:embed init.sql
var initSQL string

func (p *Postgres) Init(ctx context.Context) (err error) {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("init: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, initSQL); err != nil {
		return fmt.Errorf("init: exec: %w", err)
	}

	return err
}

type SQLStatement struct {
	SQL         string
	NamedParams pgx.NamedArgs
}

func (p *Postgres) AddArcs(ctx context.Context, arcs []graphline.Arc) (added int, err error) {
	stmts := make([]SQLStatement, len(arcs))
	for i, arc := range arcs {
		stmts[i] = SQLStatement{
			SQL: `INSERT INTO arcs (tail, head) VALUES (@tail, @head) ON CONFLICT (tail, head) DO NOTHING;`,
			NamedParams: pgx.NamedArgs{
				"tail": int64(arc.Tail),
				"head": int64(arc.Head),
			},
		}
	}
	rowsAffected, err := p.mutate(ctx, stmts)
	if err != nil {
		return 0, fmt.Errorf("addarcs: mutate: %w", err)
	}
	for _, n := range rowsAffected {
		added += n
	}
	return added, nil
}

func (p *Postgres) RemoveArcs(ctx context.Context, arcs []graphline.Arc) (removed int, err error) {
	stmts := make([]SQLStatement, len(arcs))
	for i, arc := range arcs {
		stmts[i] = SQLStatement{
			SQL: `DELETE FROM arcs WHERE tail = @tail AND head = @head;`,
			NamedParams: pgx.NamedArgs{
				"tail": int64(arc.Tail),
				"head": int64(arc.Head),
			},
		}
	}
	rowsAffected, err := p.mutate(ctx, stmts)
	if err != nil {
		return 0, fmt.Errorf("removearcs: mutate: %w", err)
	}
	for _, n := range rowsAffected {
		removed += n
	}
	return removed, nil
}

func (p *Postgres) Successors(ctx context.Context, node graphline.NodeID) ([]graphline.NodeID, error) {
	return p.queryNodes(ctx, `SELECT head FROM arcs WHERE tail = @node ORDER BY head;`, pgx.NamedArgs{"node": int64(node)})
}

func (p *Postgres) Predecessors(ctx context.Context, node graphline.NodeID) ([]graphline.NodeID, error) {
	return p.queryNodes(ctx, `SELECT tail FROM arcs WHERE head = @node ORDER BY tail;`, pgx.NamedArgs{"node": int64(node)})
}

func (p *Postgres) ReplaceSuccessors(ctx context.Context, node graphline.NodeID, heads []graphline.NodeID) error {
	stmts := make([]SQLStatement, 0, len(heads)+1)
	stmts = append(stmts, SQLStatement{
		SQL:         `DELETE FROM arcs WHERE tail = @node;`,
		NamedParams: pgx.NamedArgs{"node": int64(node)},
	})
	for _, head := range heads {
		stmts = append(stmts, SQLStatement{
			SQL: `INSERT INTO arcs (tail, head) VALUES (@tail, @head) ON CONFLICT (tail, head) DO NOTHING;`,
			NamedParams: pgx.NamedArgs{
				"tail": int64(node),
				"head": int64(head),
			},
		})
	}
	if _, err := p.mutate(ctx, stmts); err != nil {
		return fmt.Errorf("replacesuccessors: mutate: %w", err)
	}
	return nil
}

func (p *Postgres) ReplacePredecessors(ctx context.Context, node graphline.NodeID, tails []graphline.NodeID) error {
	stmts := make([]SQLStatement, 0, len(tails)+1)
	stmts = append(stmts, SQLStatement{
		SQL:         `DELETE FROM arcs WHERE head = @node;`,
		NamedParams: pgx.NamedArgs{"node": int64(node)},
	})
	for _, tail := range tails {
		stmts = append(stmts, SQLStatement{
			SQL: `INSERT INTO arcs (tail, head) VALUES (@tail, @head) ON CONFLICT (tail, head) DO NOTHING;`,
			NamedParams: pgx.NamedArgs{
				"tail": int64(tail),
				"head": int64(node),
			},
		})
	}
	if _, err := p.mutate(ctx, stmts); err != nil {
		return fmt.Errorf("replacepredecessors: mutate: %w", err)
	}
	return nil
}

func (p *Postgres) Roots(ctx context.Context) ([]graphline.NodeID, error) {
	sql := `SELECT DISTINCT tail FROM arcs WHERE tail NOT IN (SELECT head FROM arcs) ORDER BY tail;`
	return p.queryNodes(ctx, sql, nil)
}

func (p *Postgres) Leaves(ctx context.Context) ([]graphline.NodeID, error) {
	sql := `SELECT DISTINCT head FROM arcs WHERE head NOT IN (SELECT tail FROM arcs) ORDER BY head;`
	return p.queryNodes(ctx, sql, nil)
}

func (p *Postgres) Stats(ctx context.Context) (stats graphline.Stats, err error) {
	nodes, err := p.queryScalarInt(ctx, `SELECT count(*) FROM (SELECT tail FROM arcs UNION SELECT head FROM arcs) AS nodes;`, nil)
	if err != nil {
		return stats, fmt.Errorf("stats: nodes: %w", err)
	}
	arcs, err := p.queryScalarInt(ctx, `SELECT count(*) FROM arcs;`, nil)
	if err != nil {
		return stats, fmt.Errorf("stats: arcs: %w", err)
	}
	stats.Nodes = int64(nodes)
	stats.Arcs = int64(arcs)
	return stats, nil
}

func (p *Postgres) Clear(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, `DELETE FROM arcs;`); err != nil {
		return fmt.Errorf("clear: exec: %w", err)
	}
	return nil
}

func (p *Postgres) mutate(ctx context.Context, stmts []SQLStatement) (rowsAffected []int, err error) {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("mutate: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()
	rowsAffected = make([]int, len(stmts))
	for i, stmt := range stmts {
		tag, execErr := tx.Exec(ctx, stmt.SQL, stmt.NamedParams)
		if execErr != nil {
			return rowsAffected, fmt.Errorf("mutate: index %d: %w", i, execErr)
		}
		rowsAffected[i] = int(tag.RowsAffected())
	}
	return rowsAffected, err
}

func (p *Postgres) queryNodes(ctx context.Context, sql string, args pgx.NamedArgs) (nodes []graphline.NodeID, err error) {
	rows, err := p.Pool.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var node int64
		if err = rows.Scan(&node); err != nil {
			return nil, fmt.Errorf("query scan: %w", err)
		}
		nodes = append(nodes, graphline.NodeID(node))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	return nodes, nil
}

func (p *Postgres) queryScalarInt(ctx context.Context, sql string, args pgx.NamedArgs) (v int, err error) {
	row := p.Pool.QueryRow(ctx, sql, args)
	if err = row.Scan(&v); err != nil {
		return 0, fmt.Errorf("queryscalarint: %w", err)
	}
	return v, nil
}
