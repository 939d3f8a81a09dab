// Package tests is the conformance suite every graphline.Store backend must
// pass. Backends call Run from their own test files.
package tests

import (
	"context"
	"testing"

	"github.com/graphline/graphline"
)

// Run runs the conformance suite against the store.
func Run(t *testing.T, store graphline.Store) {
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Run("AddArcs", newAddArcsTest(ctx, store))
	t.Run("RemoveArcs", newRemoveArcsTest(ctx, store))
	t.Run("Neighbors", newNeighborsTest(ctx, store))
	t.Run("Replace", newReplaceTest(ctx, store))
	t.Run("RootsAndLeaves", newRootsLeavesTest(ctx, store))
	t.Run("Stats", newStatsTest(ctx, store))
}

func mustClear(ctx context.Context, t *testing.T, store graphline.Store) {
	t.Helper()
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("failed to clear store: %v", err)
	}
}

func mustAdd(ctx context.Context, t *testing.T, store graphline.Store, arcs ...graphline.Arc) {
	t.Helper()
	if _, err := store.AddArcs(ctx, arcs); err != nil {
		t.Fatalf("failed to add arcs: %v", err)
	}
}

func equalNodes(a, b []graphline.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
