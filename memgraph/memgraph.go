// Package memgraph is an in-memory graph store, used for tests and for
// interpreter sessions that do not need persistence.
package memgraph

import (
	"context"
	"slices"

	"github.com/graphline/graphline"
)

type nodeSet map[graphline.NodeID]struct{}

// Store keeps forward and reverse adjacency maps. It implements
// graphline.Store. The interpreter is single-threaded, so no locking is done.
type Store struct {
	successors   map[graphline.NodeID]nodeSet
	predecessors map[graphline.NodeID]nodeSet
	arcCount     int64
}

func New() *Store {
	return &Store{
		successors:   make(map[graphline.NodeID]nodeSet),
		predecessors: make(map[graphline.NodeID]nodeSet),
	}
}

func (s *Store) Init(ctx context.Context) error {
	return nil
}

func (s *Store) addArc(arc graphline.Arc) bool {
	heads, ok := s.successors[arc.Tail]
	if !ok {
		heads = make(nodeSet)
		s.successors[arc.Tail] = heads
	}
	if _, exists := heads[arc.Head]; exists {
		return false
	}
	heads[arc.Head] = struct{}{}

	tails, ok := s.predecessors[arc.Head]
	if !ok {
		tails = make(nodeSet)
		s.predecessors[arc.Head] = tails
	}
	tails[arc.Tail] = struct{}{}
	s.arcCount++
	return true
}

func (s *Store) removeArc(arc graphline.Arc) bool {
	heads, ok := s.successors[arc.Tail]
	if !ok {
		return false
	}
	if _, exists := heads[arc.Head]; !exists {
		return false
	}
	delete(heads, arc.Head)
	if len(heads) == 0 {
		delete(s.successors, arc.Tail)
	}
	tails := s.predecessors[arc.Head]
	delete(tails, arc.Tail)
	if len(tails) == 0 {
		delete(s.predecessors, arc.Head)
	}
	s.arcCount--
	return true
}

func (s *Store) AddArcs(ctx context.Context, arcs []graphline.Arc) (added int, err error) {
	for _, arc := range arcs {
		if s.addArc(arc) {
			added++
		}
	}
	return added, nil
}

func (s *Store) RemoveArcs(ctx context.Context, arcs []graphline.Arc) (removed int, err error) {
	for _, arc := range arcs {
		if s.removeArc(arc) {
			removed++
		}
	}
	return removed, nil
}

func sorted(set nodeSet) []graphline.NodeID {
	nodes := make([]graphline.NodeID, 0, len(set))
	for n := range set {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)
	return nodes
}

func (s *Store) Successors(ctx context.Context, node graphline.NodeID) ([]graphline.NodeID, error) {
	return sorted(s.successors[node]), nil
}

func (s *Store) Predecessors(ctx context.Context, node graphline.NodeID) ([]graphline.NodeID, error) {
	return sorted(s.predecessors[node]), nil
}

func (s *Store) ReplaceSuccessors(ctx context.Context, node graphline.NodeID, heads []graphline.NodeID) error {
	for _, head := range sorted(s.successors[node]) {
		s.removeArc(graphline.Arc{Tail: node, Head: head})
	}
	for _, head := range heads {
		s.addArc(graphline.Arc{Tail: node, Head: head})
	}
	return nil
}

func (s *Store) ReplacePredecessors(ctx context.Context, node graphline.NodeID, tails []graphline.NodeID) error {
	for _, tail := range sorted(s.predecessors[node]) {
		s.removeArc(graphline.Arc{Tail: tail, Head: node})
	}
	for _, tail := range tails {
		s.addArc(graphline.Arc{Tail: tail, Head: node})
	}
	return nil
}

func (s *Store) Roots(ctx context.Context) ([]graphline.NodeID, error) {
	var roots []graphline.NodeID
	for n := range s.successors {
		if _, hasIncoming := s.predecessors[n]; !hasIncoming {
			roots = append(roots, n)
		}
	}
	slices.Sort(roots)
	return roots, nil
}

func (s *Store) Leaves(ctx context.Context) ([]graphline.NodeID, error) {
	var leaves []graphline.NodeID
	for n := range s.predecessors {
		if _, hasOutgoing := s.successors[n]; !hasOutgoing {
			leaves = append(leaves, n)
		}
	}
	slices.Sort(leaves)
	return leaves, nil
}

func (s *Store) Stats(ctx context.Context) (graphline.Stats, error) {
	nodes := make(nodeSet)
	for n := range s.successors {
		nodes[n] = struct{}{}
	}
	for n := range s.predecessors {
		nodes[n] = struct{}{}
	}
	return graphline.Stats{
		Nodes: int64(len(nodes)),
		Arcs:  s.arcCount,
	}, nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.successors = make(map[graphline.NodeID]nodeSet)
	s.predecessors = make(map[graphline.NodeID]nodeSet)
	s.arcCount = 0
	return nil
}
