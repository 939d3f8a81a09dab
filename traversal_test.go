package graphline_test

import (
	"context"
	"slices"
	"testing"

	"github.com/graphline/graphline"
	"github.com/graphline/graphline/memgraph"
)

func newTestStore(t *testing.T, arcs ...graphline.Arc) graphline.Store {
	t.Helper()
	store := memgraph.New()
	if _, err := store.AddArcs(context.Background(), arcs); err != nil {
		t.Fatalf("failed to add arcs: %v", err)
	}
	return store
}

func TestTraverse(t *testing.T) {
	ctx := context.Background()
	// 1 -> 2 -> 3 -> 4, 2 -> 5, 6 isolated from 1.
	store := newTestStore(t,
		graphline.Arc{Tail: 1, Head: 2},
		graphline.Arc{Tail: 2, Head: 3},
		graphline.Arc{Tail: 3, Head: 4},
		graphline.Arc{Tail: 2, Head: 5},
		graphline.Arc{Tail: 6, Head: 4},
	)

	t.Run("full forward closure", func(t *testing.T) {
		nodes, err := graphline.Traverse(ctx, store, 1, graphline.Forward, graphline.TraversalOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(nodes, []graphline.NodeID{1, 2, 3, 4, 5}) {
			t.Errorf("expected [1 2 3 4 5], got %v", nodes)
		}
	})
	t.Run("depth limited", func(t *testing.T) {
		nodes, err := graphline.Traverse(ctx, store, 1, graphline.Forward, graphline.TraversalOptions{MaxDepth: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(nodes, []graphline.NodeID{1, 2}) {
			t.Errorf("expected [1 2], got %v", nodes)
		}
	})
	t.Run("backward closure", func(t *testing.T) {
		nodes, err := graphline.Traverse(ctx, store, 4, graphline.Backward, graphline.TraversalOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(nodes, []graphline.NodeID{1, 2, 3, 4, 6}) {
			t.Errorf("expected [1 2 3 4 6], got %v", nodes)
		}
	})
	t.Run("cycle terminates", func(t *testing.T) {
		cyclic := newTestStore(t,
			graphline.Arc{Tail: 1, Head: 2},
			graphline.Arc{Tail: 2, Head: 1},
		)
		nodes, err := graphline.Traverse(ctx, cyclic, 1, graphline.Forward, graphline.TraversalOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(nodes, []graphline.NodeID{1, 2}) {
			t.Errorf("expected [1 2], got %v", nodes)
		}
	})
	t.Run("visit limit enforced", func(t *testing.T) {
		_, err := graphline.Traverse(ctx, store, 1, graphline.Forward, graphline.TraversalOptions{VisitLimit: 2})
		if err == nil {
			t.Fatal("expected visit limit error")
		}
	})
	t.Run("zero start is rejected", func(t *testing.T) {
		if _, err := graphline.Traverse(ctx, store, 0, graphline.Forward, graphline.TraversalOptions{}); err == nil {
			t.Fatal("expected error for zero start node")
		}
	})
}

func TestFindPath(t *testing.T) {
	ctx := context.Background()
	// Two routes from 1 to 4; the short one goes through 5.
	store := newTestStore(t,
		graphline.Arc{Tail: 1, Head: 2},
		graphline.Arc{Tail: 2, Head: 3},
		graphline.Arc{Tail: 3, Head: 4},
		graphline.Arc{Tail: 1, Head: 5},
		graphline.Arc{Tail: 5, Head: 4},
	)

	t.Run("finds the shortest path", func(t *testing.T) {
		path, err := graphline.FindPath(ctx, store, 1, 4, graphline.TraversalOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path == nil {
			t.Fatal("expected a path")
		}
		if !slices.Equal(path.Nodes, []graphline.NodeID{1, 5, 4}) {
			t.Errorf("expected [1 5 4], got %v", path.Nodes)
		}
		expectedArcs := []graphline.Arc{{Tail: 1, Head: 5}, {Tail: 5, Head: 4}}
		if !slices.Equal(path.Arcs, expectedArcs) {
			t.Errorf("expected %v, got %v", expectedArcs, path.Arcs)
		}
		if path.Depth != 2 {
			t.Errorf("expected depth 2, got %d", path.Depth)
		}
	})
	t.Run("unreachable returns nil", func(t *testing.T) {
		path, err := graphline.FindPath(ctx, store, 4, 1, graphline.TraversalOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != nil {
			t.Errorf("expected nil path, got %v", path)
		}
	})
	t.Run("same node", func(t *testing.T) {
		path, err := graphline.FindPath(ctx, store, 3, 3, graphline.TraversalOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path == nil || len(path.Arcs) != 0 || path.Depth != 0 {
			t.Errorf("expected trivial path, got %v", path)
		}
	})
	t.Run("depth limit hides long paths", func(t *testing.T) {
		path, err := graphline.FindPath(ctx, store, 1, 4, graphline.TraversalOptions{MaxDepth: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != nil {
			t.Errorf("expected nil path under depth 1, got %v", path)
		}
	})
}
