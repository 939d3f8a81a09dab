package rqlitegraph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/graphline/graphline"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
)

func New(client *rqlitehttp.Client) *Rqlite {
	return &Rqlite{
		Client:          client,
		Timeout:         time.Second * 10,
		ReadConsistency: rqlitehttp.ReadConsistencyLevelStrong,
	}
}

// Rqlite stores arcs in a distributed rqlite cluster.
type Rqlite struct {
	Client          *rqlitehttp.Client
	Timeout         time.Duration
	ReadConsistency rqlitehttp.ReadConsistencyLevel
}

func (rq *Rqlite) Init(ctx context.Context) (err error) {
	stmts := rqlitehttp.SQLStatements{
		{
			SQL: `create table if not exists arcs (tail integer not null, head integer not null, primary key (tail, head)) without rowid;`,
		},
		{
			SQL: `create index if not exists arcs_by_head on arcs(head, tail);`,
		},
	}
	opts := &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Wait:        true,
	}
	if _, err = rq.Client.Execute(ctx, stmts, opts); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	return nil
}

func (rq *Rqlite) AddArcs(ctx context.Context, arcs []graphline.Arc) (added int, err error) {
	stmts := make(rqlitehttp.SQLStatements, len(arcs))
	for i, arc := range arcs {
		stmts[i] = rqlitehttp.SQLStatement{
			SQL: `insert into arcs (tail, head) values (:tail, :head) on conflict (tail, head) do nothing;`,
			NamedParams: map[string]any{
				"tail": int64(arc.Tail),
				"head": int64(arc.Head),
			},
		}
	}
	rowsAffected, err := rq.Mutate(ctx, stmts)
	if err != nil {
		return 0, fmt.Errorf("addarcs: %w", err)
	}
	for _, n := range rowsAffected {
		added += int(n)
	}
	return added, nil
}

func (rq *Rqlite) RemoveArcs(ctx context.Context, arcs []graphline.Arc) (removed int, err error) {
	stmts := make(rqlitehttp.SQLStatements, len(arcs))
	for i, arc := range arcs {
		stmts[i] = rqlitehttp.SQLStatement{
			SQL: `delete from arcs where tail = :tail and head = :head;`,
			NamedParams: map[string]any{
				"tail": int64(arc.Tail),
				"head": int64(arc.Head),
			},
		}
	}
	rowsAffected, err := rq.Mutate(ctx, stmts)
	if err != nil {
		return 0, fmt.Errorf("removearcs: %w", err)
	}
	for _, n := range rowsAffected {
		removed += int(n)
	}
	return removed, nil
}

func (rq *Rqlite) Successors(ctx context.Context, node graphline.NodeID) ([]graphline.NodeID, error) {
	sql := `select head from arcs where tail = :node order by head;`
	return rq.queryNodes(ctx, sql, map[string]any{"node": int64(node)})
}

func (rq *Rqlite) Predecessors(ctx context.Context, node graphline.NodeID) ([]graphline.NodeID, error) {
	sql := `select tail from arcs where head = :node order by tail;`
	return rq.queryNodes(ctx, sql, map[string]any{"node": int64(node)})
}

func (rq *Rqlite) ReplaceSuccessors(ctx context.Context, node graphline.NodeID, heads []graphline.NodeID) error {
	stmts := make(rqlitehttp.SQLStatements, 0, len(heads)+1)
	stmts = append(stmts, rqlitehttp.SQLStatement{
		SQL:         `delete from arcs where tail = :node;`,
		NamedParams: map[string]any{"node": int64(node)},
	})
	for _, head := range heads {
		stmts = append(stmts, rqlitehttp.SQLStatement{
			SQL: `insert into arcs (tail, head) values (:tail, :head) on conflict (tail, head) do nothing;`,
			NamedParams: map[string]any{
				"tail": int64(node),
				"head": int64(head),
			},
		})
	}
	if _, err := rq.Mutate(ctx, stmts); err != nil {
		return fmt.Errorf("replacesuccessors: %w", err)
	}
	return nil
}

func (rq *Rqlite) ReplacePredecessors(ctx context.Context, node graphline.NodeID, tails []graphline.NodeID) error {
	stmts := make(rqlitehttp.SQLStatements, 0, len(tails)+1)
	stmts = append(stmts, rqlitehttp.SQLStatement{
		SQL:         `delete from arcs where head = :node;`,
		NamedParams: map[string]any{"node": int64(node)},
	})
	for _, tail := range tails {
		stmts = append(stmts, rqlitehttp.SQLStatement{
			SQL: `insert into arcs (tail, head) values (:tail, :head) on conflict (tail, head) do nothing;`,
			NamedParams: map[string]any{
				"tail": int64(tail),
				"head": int64(node),
			},
		})
	}
	if _, err := rq.Mutate(ctx, stmts); err != nil {
		return fmt.Errorf("replacepredecessors: %w", err)
	}
	return nil
}

func (rq *Rqlite) Roots(ctx context.Context) ([]graphline.NodeID, error) {
	sql := `select distinct tail from arcs where tail not in (select head from arcs) order by tail;`
	return rq.queryNodes(ctx, sql, nil)
}

func (rq *Rqlite) Leaves(ctx context.Context) ([]graphline.NodeID, error) {
	sql := `select distinct head from arcs where head not in (select tail from arcs) order by head;`
	return rq.queryNodes(ctx, sql, nil)
}

func (rq *Rqlite) Stats(ctx context.Context) (stats graphline.Stats, err error) {
	stats.Nodes, err = rq.QueryScalarInt64(ctx, `select count(*) from (select tail from arcs union select head from arcs);`, nil)
	if err != nil {
		return stats, fmt.Errorf("stats: nodes: %w", err)
	}
	stats.Arcs, err = rq.QueryScalarInt64(ctx, `select count(*) from arcs;`, nil)
	if err != nil {
		return stats, fmt.Errorf("stats: arcs: %w", err)
	}
	return stats, nil
}

func (rq *Rqlite) Clear(ctx context.Context) error {
	stmts := rqlitehttp.SQLStatements{
		{SQL: `delete from arcs;`},
	}
	if _, err := rq.Mutate(ctx, stmts); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

func (rq *Rqlite) queryNodes(ctx context.Context, sql string, params map[string]any) (nodes []graphline.NodeID, err error) {
	opts := &rqlitehttp.QueryOptions{
		Timeout: rq.Timeout,
		Level:   rq.ReadConsistency,
	}
	q := rqlitehttp.SQLStatement{
		SQL:         sql,
		NamedParams: params,
	}
	qr, err := rq.Client.Query(ctx, rqlitehttp.SQLStatements{q}, opts)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(qr.Results) != 1 {
		return nil, fmt.Errorf("query: expected 1 result, got %d", len(qr.Results))
	}
	result := qr.Results[0]
	if result.Error != "" {
		return nil, fmt.Errorf("query: %s", result.Error)
	}
	nodes = make([]graphline.NodeID, len(result.Values))
	for i, values := range result.Values {
		if len(values) != 1 {
			return nil, fmt.Errorf("query: row %d: expected 1 column, got %d", i, len(values))
		}
		v, err := tryGetInt64(values[0])
		if err != nil {
			return nil, fmt.Errorf("query: row %d: %w", i, err)
		}
		nodes[i] = graphline.NodeID(v)
	}
	return nodes, nil
}

func (rq *Rqlite) QueryScalarInt64(ctx context.Context, sql string, params map[string]any) (int64, error) {
	opts := &rqlitehttp.QueryOptions{
		Timeout: rq.Timeout,
		Level:   rq.ReadConsistency,
	}
	q := rqlitehttp.SQLStatement{
		SQL:         sql,
		NamedParams: params,
	}
	qr, err := rq.Client.Query(ctx, rqlitehttp.SQLStatements{q}, opts)
	if err != nil {
		return 0, err
	}
	if len(qr.Results) != 1 {
		return 0, fmt.Errorf("expected 1 result, got %d", len(qr.Results))
	}
	if qr.Results[0].Error != "" {
		return 0, fmt.Errorf("%s", qr.Results[0].Error)
	}
	if len(qr.Results[0].Values) != 1 {
		return 0, fmt.Errorf("expected 1 row, got %d", len(qr.Results[0].Values))
	}
	if len(qr.Results[0].Values[0]) != 1 {
		return 0, fmt.Errorf("expected 1 column, got %d", len(qr.Results[0].Values[0]))
	}
	return tryGetInt64(qr.Results[0].Values[0][0])
}

func tryGetInt64(v any) (int64, error) {
	floatValue, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("expected float64, got %T", v)
	}
	return int64(floatValue), nil
}

func (rq *Rqlite) Mutate(ctx context.Context, stmts rqlitehttp.SQLStatements) (rowsAffected []int64, err error) {
	opts := &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Wait:        true,
		Timeout:     rq.Timeout,
	}
	qr, err := rq.Client.Execute(ctx, stmts, opts)
	if err != nil {
		return nil, fmt.Errorf("mutate: %w", err)
	}
	rowsAffected = make([]int64, len(stmts))
	errs := make([]error, len(stmts))
	for i, result := range qr.Results {
		if result.Error != "" {
			errs[i] = fmt.Errorf("mutate: index %d: %s", i, result.Error)
			continue
		}
		rowsAffected[i] = result.RowsAffected
	}
	return rowsAffected, errors.Join(errs...)
}
