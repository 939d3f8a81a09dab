package tests

import (
	"context"
	"testing"

	"github.com/graphline/graphline"
)

func newAddArcsTest(ctx context.Context, store graphline.Store) func(t *testing.T) {
	return func(t *testing.T) {
		defer mustClear(ctx, t, store)

		t.Run("Can add arcs", func(t *testing.T) {
			added, err := store.AddArcs(ctx, []graphline.Arc{
				{Tail: 1, Head: 2},
				{Tail: 1, Head: 3},
				{Tail: 2, Head: 3},
			})
			if err != nil {
				t.Fatalf("unexpected error adding arcs: %v", err)
			}
			if added != 3 {
				t.Errorf("expected 3 arcs added, got %d", added)
			}
		})

		t.Run("Duplicate arcs are skipped", func(t *testing.T) {
			added, err := store.AddArcs(ctx, []graphline.Arc{
				{Tail: 1, Head: 2},
				{Tail: 3, Head: 4},
			})
			if err != nil {
				t.Fatalf("unexpected error adding arcs: %v", err)
			}
			if added != 1 {
				t.Errorf("expected 1 new arc, got %d", added)
			}
		})

		t.Run("Empty batch is a no-op", func(t *testing.T) {
			added, err := store.AddArcs(ctx, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if added != 0 {
				t.Errorf("expected 0 arcs added, got %d", added)
			}
		})
	}
}

func newRemoveArcsTest(ctx context.Context, store graphline.Store) func(t *testing.T) {
	return func(t *testing.T) {
		defer mustClear(ctx, t, store)

		mustAdd(ctx, t, store,
			graphline.Arc{Tail: 1, Head: 2},
			graphline.Arc{Tail: 2, Head: 3},
			graphline.Arc{Tail: 3, Head: 1},
		)

		t.Run("Can remove arcs", func(t *testing.T) {
			removed, err := store.RemoveArcs(ctx, []graphline.Arc{{Tail: 1, Head: 2}})
			if err != nil {
				t.Fatalf("unexpected error removing arcs: %v", err)
			}
			if removed != 1 {
				t.Errorf("expected 1 arc removed, got %d", removed)
			}
			successors, err := store.Successors(ctx, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(successors) != 0 {
				t.Errorf("expected no successors of 1, got %v", successors)
			}
		})

		t.Run("Missing arcs are skipped", func(t *testing.T) {
			removed, err := store.RemoveArcs(ctx, []graphline.Arc{
				{Tail: 1, Head: 2},
				{Tail: 2, Head: 3},
			})
			if err != nil {
				t.Fatalf("unexpected error removing arcs: %v", err)
			}
			if removed != 1 {
				t.Errorf("expected 1 arc removed, got %d", removed)
			}
		})
	}
}

func newNeighborsTest(ctx context.Context, store graphline.Store) func(t *testing.T) {
	return func(t *testing.T) {
		defer mustClear(ctx, t, store)

		mustAdd(ctx, t, store,
			graphline.Arc{Tail: 1, Head: 5},
			graphline.Arc{Tail: 1, Head: 2},
			graphline.Arc{Tail: 1, Head: 9},
			graphline.Arc{Tail: 4, Head: 5},
			graphline.Arc{Tail: 3, Head: 5},
		)

		t.Run("Successors are ascending", func(t *testing.T) {
			successors, err := store.Successors(ctx, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalNodes(successors, []graphline.NodeID{2, 5, 9}) {
				t.Errorf("expected [2 5 9], got %v", successors)
			}
		})

		t.Run("Predecessors are ascending", func(t *testing.T) {
			predecessors, err := store.Predecessors(ctx, 5)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalNodes(predecessors, []graphline.NodeID{1, 3, 4}) {
				t.Errorf("expected [1 3 4], got %v", predecessors)
			}
		})

		t.Run("Unknown node has no neighbors", func(t *testing.T) {
			successors, err := store.Successors(ctx, 77)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(successors) != 0 {
				t.Errorf("expected no successors, got %v", successors)
			}
		})
	}
}

func newReplaceTest(ctx context.Context, store graphline.Store) func(t *testing.T) {
	return func(t *testing.T) {
		defer mustClear(ctx, t, store)

		t.Run("ReplaceSuccessors swaps the outgoing set", func(t *testing.T) {
			mustAdd(ctx, t, store,
				graphline.Arc{Tail: 1, Head: 2},
				graphline.Arc{Tail: 1, Head: 3},
			)
			if err := store.ReplaceSuccessors(ctx, 1, []graphline.NodeID{4, 5}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			successors, err := store.Successors(ctx, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalNodes(successors, []graphline.NodeID{4, 5}) {
				t.Errorf("expected [4 5], got %v", successors)
			}
		})

		t.Run("ReplaceSuccessors with empty set clears", func(t *testing.T) {
			if err := store.ReplaceSuccessors(ctx, 1, nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			successors, err := store.Successors(ctx, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(successors) != 0 {
				t.Errorf("expected no successors, got %v", successors)
			}
		})

		t.Run("ReplacePredecessors swaps the incoming set", func(t *testing.T) {
			mustAdd(ctx, t, store,
				graphline.Arc{Tail: 7, Head: 9},
				graphline.Arc{Tail: 8, Head: 9},
			)
			if err := store.ReplacePredecessors(ctx, 9, []graphline.NodeID{6}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			predecessors, err := store.Predecessors(ctx, 9)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalNodes(predecessors, []graphline.NodeID{6}) {
				t.Errorf("expected [6], got %v", predecessors)
			}
			// The replaced tails lost their arcs into 9 only.
			successors, err := store.Successors(ctx, 7)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(successors) != 0 {
				t.Errorf("expected no successors of 7, got %v", successors)
			}
		})
	}
}

func newRootsLeavesTest(ctx context.Context, store graphline.Store) func(t *testing.T) {
	return func(t *testing.T) {
		defer mustClear(ctx, t, store)

		// 1 -> 2 -> 3, 1 -> 3, 4 -> 3.
		mustAdd(ctx, t, store,
			graphline.Arc{Tail: 1, Head: 2},
			graphline.Arc{Tail: 2, Head: 3},
			graphline.Arc{Tail: 1, Head: 3},
			graphline.Arc{Tail: 4, Head: 3},
		)

		t.Run("Roots", func(t *testing.T) {
			roots, err := store.Roots(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalNodes(roots, []graphline.NodeID{1, 4}) {
				t.Errorf("expected [1 4], got %v", roots)
			}
		})

		t.Run("Leaves", func(t *testing.T) {
			leaves, err := store.Leaves(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalNodes(leaves, []graphline.NodeID{3}) {
				t.Errorf("expected [3], got %v", leaves)
			}
		})
	}
}

func newStatsTest(ctx context.Context, store graphline.Store) func(t *testing.T) {
	return func(t *testing.T) {
		defer mustClear(ctx, t, store)

		t.Run("Empty graph", func(t *testing.T) {
			stats, err := store.Stats(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stats.Nodes != 0 || stats.Arcs != 0 {
				t.Errorf("expected empty stats, got %+v", stats)
			}
		})

		t.Run("Counts nodes and arcs", func(t *testing.T) {
			mustAdd(ctx, t, store,
				graphline.Arc{Tail: 1, Head: 2},
				graphline.Arc{Tail: 2, Head: 3},
			)
			stats, err := store.Stats(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stats.Nodes != 3 {
				t.Errorf("expected 3 nodes, got %d", stats.Nodes)
			}
			if stats.Arcs != 2 {
				t.Errorf("expected 2 arcs, got %d", stats.Arcs)
			}
		})

		t.Run("Clear empties the graph", func(t *testing.T) {
			if err := store.Clear(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			stats, err := store.Stats(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stats.Nodes != 0 || stats.Arcs != 0 {
				t.Errorf("expected empty stats after clear, got %+v", stats)
			}
		})
	}
}
