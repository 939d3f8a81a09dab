package graphline

import (
	"context"
	"fmt"
	"slices"
)

// Direction selects which way a traversal walks arcs.
type Direction int

const (
	// Forward walks tail to head (successors).
	Forward Direction = iota
	// Backward walks head to tail (predecessors).
	Backward
)

// TraversalOptions configure graph traversal behavior.
type TraversalOptions struct {
	MaxDepth   int // Maximum depth to traverse (0 = unlimited).
	VisitLimit int // Maximum nodes to visit (0 = default budget).
}

// DefaultVisitLimit bounds traversals so a cyclic or very dense graph cannot
// run away with memory.
const DefaultVisitLimit = 100000

// Path is a walk through the graph from Nodes[0] to Nodes[len-1].
type Path struct {
	Nodes []NodeID `json:"nodes"`
	Arcs  []Arc    `json:"arcs"`
	Depth int      `json:"depth"`
}

func neighbors(ctx context.Context, store Store, node NodeID, dir Direction) ([]NodeID, error) {
	if dir == Backward {
		return store.Predecessors(ctx, node)
	}
	return store.Successors(ctx, node)
}

// Traverse performs a breadth-first walk from start and returns every node
// reachable within the options' depth and visit budgets, in ascending order.
// The start node is included.
func Traverse(ctx context.Context, store Store, start NodeID, dir Direction, opts TraversalOptions) ([]NodeID, error) {
	if start == 0 {
		return nil, fmt.Errorf("traverse: start node cannot be zero")
	}
	if opts.MaxDepth < 0 {
		return nil, fmt.Errorf("traverse: max depth cannot be negative")
	}
	limit := opts.VisitLimit
	if limit <= 0 {
		limit = DefaultVisitLimit
	}

	type item struct {
		node  NodeID
		depth int
	}
	visited := map[NodeID]bool{start: true}
	queue := []item{{node: start}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if opts.MaxDepth > 0 && current.depth >= opts.MaxDepth {
			continue
		}

		next, err := neighbors(ctx, store, current.node, dir)
		if err != nil {
			return nil, err
		}
		for _, n := range next {
			if visited[n] {
				continue
			}
			if len(visited) >= limit {
				return nil, fmt.Errorf("traverse: exceeded maximum of %d nodes - set MaxDepth or VisitLimit", limit)
			}
			visited[n] = true
			queue = append(queue, item{node: n, depth: current.depth + 1})
		}
	}

	result := make([]NodeID, 0, len(visited))
	for n := range visited {
		result = append(result, n)
	}
	slices.Sort(result)
	return result, nil
}

// FindPath finds the shortest arc path from one node to another using BFS.
// It returns nil (and no error) when the target is unreachable.
func FindPath(ctx context.Context, store Store, from, to NodeID, opts TraversalOptions) (*Path, error) {
	if from == 0 || to == 0 {
		return nil, fmt.Errorf("findpath: nodes cannot be zero")
	}
	if opts.MaxDepth < 0 {
		return nil, fmt.Errorf("findpath: max depth cannot be negative")
	}
	limit := opts.VisitLimit
	if limit <= 0 {
		limit = DefaultVisitLimit
	}

	if from == to {
		return &Path{Nodes: []NodeID{from}}, nil
	}

	visited := map[NodeID]bool{from: true}
	queue := []Path{{Nodes: []NodeID{from}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if opts.MaxDepth > 0 && current.Depth >= opts.MaxDepth {
			continue
		}

		tail := current.Nodes[len(current.Nodes)-1]
		next, err := store.Successors(ctx, tail)
		if err != nil {
			return nil, err
		}
		for _, n := range next {
			if visited[n] {
				continue
			}
			if len(visited) >= limit {
				return nil, fmt.Errorf("findpath: exceeded maximum of %d nodes - set MaxDepth or VisitLimit", limit)
			}
			visited[n] = true

			extended := Path{
				Nodes: append(slices.Clone(current.Nodes), n),
				Arcs:  append(slices.Clone(current.Arcs), Arc{Tail: tail, Head: n}),
				Depth: current.Depth + 1,
			}
			if n == to {
				return &extended, nil
			}
			queue = append(queue, extended)
		}
	}

	return nil, nil
}
