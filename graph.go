package graphline

import (
	"context"
	"fmt"
)

// NodeID identifies a graph vertex. Zero is not a valid node ID, and the
// dataset parser rejects it before it can reach a store.
type NodeID uint32

// Arc is a directed connection from Tail to Head.
type Arc struct {
	Tail NodeID `json:"tail"`
	Head NodeID `json:"head"`
}

func (a Arc) String() string {
	return fmt.Sprintf("%d %d", a.Tail, a.Head)
}

// Stats summarises the size of a graph.
type Stats struct {
	Nodes int64 `json:"nodes"`
	Arcs  int64 `json:"arcs"`
}

type Store interface {
	// Init initializes the store. It should be called before any other method, and creates the necessary schema.
	Init(ctx context.Context) error
	// AddArcs inserts arcs into the graph. Arcs that already exist are skipped, and
	// the number of arcs actually added is returned.
	AddArcs(ctx context.Context, arcs []Arc) (added int, err error)
	// RemoveArcs deletes arcs from the graph. Arcs that do not exist are skipped, and
	// the number of arcs actually removed is returned.
	RemoveArcs(ctx context.Context, arcs []Arc) (removed int, err error)
	// Successors returns the heads of all arcs leaving node, in ascending order.
	Successors(ctx context.Context, node NodeID) ([]NodeID, error)
	// Predecessors returns the tails of all arcs entering node, in ascending order.
	Predecessors(ctx context.Context, node NodeID) ([]NodeID, error)
	// ReplaceSuccessors atomically replaces the outgoing arc set of node with
	// arcs to the given heads.
	ReplaceSuccessors(ctx context.Context, node NodeID, heads []NodeID) error
	// ReplacePredecessors atomically replaces the incoming arc set of node with
	// arcs from the given tails.
	ReplacePredecessors(ctx context.Context, node NodeID, tails []NodeID) error
	// Roots returns all nodes that appear as a tail but never as a head, in ascending order.
	Roots(ctx context.Context) ([]NodeID, error)
	// Leaves returns all nodes that appear as a head but never as a tail, in ascending order.
	Leaves(ctx context.Context) ([]NodeID, error)
	// Stats returns the number of distinct nodes and arcs in the graph.
	Stats(ctx context.Context) (Stats, error)
	// Clear removes every arc from the graph.
	Clear(ctx context.Context) error
}
