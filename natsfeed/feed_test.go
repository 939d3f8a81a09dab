package natsfeed

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/graphline/graphline"
	"github.com/graphline/graphline/memgraph"
	"github.com/nats-io/nats.go"
)

// mockPublisher is a mock implementation of the Publisher interface for testing.
type mockPublisher struct {
	messages []*nats.Msg
	err      error
}

func (m *mockPublisher) PublishMsg(msg *nats.Msg) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

func newTestFeed(t *testing.T) (*Feed, *mockPublisher) {
	t.Helper()
	mock := &mockPublisher{}
	feed, err := WrapWithPublisher(memgraph.New(), mock, Config{SubjectPrefix: "graph"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := feed.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return feed, mock
}

func TestWrapWithNilConnection(t *testing.T) {
	_, err := Wrap(memgraph.New(), nil, Config{})
	if err == nil {
		t.Fatal("expected error when NATS connection is nil")
	}
	if err.Error() != "NATS connection cannot be nil" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestWrapWithNilStore(t *testing.T) {
	_, err := WrapWithPublisher(nil, &mockPublisher{}, Config{})
	if err == nil {
		t.Fatal("expected error when store is nil")
	}
	if err.Error() != "store cannot be nil" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestWrapDefaults(t *testing.T) {
	feed, err := WrapWithPublisher(memgraph.New(), &mockPublisher{}, Config{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if feed.config.MaxRetries != 3 {
		t.Errorf("expected default MaxRetries=3, got %d", feed.config.MaxRetries)
	}
}

func TestBuildSubject(t *testing.T) {
	testCases := []struct {
		name     string
		prefix   string
		action   string
		expected string
	}{
		{
			name:     "with prefix",
			prefix:   "graph",
			action:   "added",
			expected: "graph.arcs.added",
		},
		{
			name:     "without prefix",
			prefix:   "",
			action:   "removed",
			expected: "arcs.removed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			feed := &Feed{config: Config{SubjectPrefix: tc.prefix}}
			result := feed.buildSubject(tc.action)
			if result != tc.expected {
				t.Errorf("buildSubject(%q) = %q, want %q", tc.action, result, tc.expected)
			}
		})
	}
}

func TestAddArcsPublishes(t *testing.T) {
	feed, mock := newTestFeed(t)
	ctx := context.Background()

	arcs := []graphline.Arc{{Tail: 1, Head: 2}, {Tail: 1, Head: 3}}
	added, err := feed.AddArcs(ctx, arcs)
	if err != nil {
		t.Fatalf("AddArcs failed: %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 arcs added, got %d", added)
	}

	if len(mock.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.messages))
	}
	msg := mock.messages[0]
	if msg.Subject != "graph.arcs.added" {
		t.Errorf("expected subject %q, got %q", "graph.arcs.added", msg.Subject)
	}
	if msg.Header.Get("graph-action") != "added" {
		t.Errorf("expected graph-action header 'added', got %q", msg.Header.Get("graph-action"))
	}
	if msg.Header.Get("graph-count") != "2" {
		t.Errorf("expected graph-count header '2', got %q", msg.Header.Get("graph-count"))
	}

	var e event
	if err := json.Unmarshal(msg.Data, &e); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}
	if e.Action != "added" {
		t.Errorf("expected action 'added', got %q", e.Action)
	}
	if len(e.Arcs) != 2 {
		t.Errorf("expected 2 arcs in payload, got %d", len(e.Arcs))
	}
}

func TestAddArcsSkipsPublishWhenNothingAdded(t *testing.T) {
	feed, mock := newTestFeed(t)
	ctx := context.Background()

	if _, err := feed.AddArcs(ctx, []graphline.Arc{{Tail: 1, Head: 2}}); err != nil {
		t.Fatalf("AddArcs failed: %v", err)
	}
	// Same arc again, nothing new is added.
	if _, err := feed.AddArcs(ctx, []graphline.Arc{{Tail: 1, Head: 2}}); err != nil {
		t.Fatalf("AddArcs failed: %v", err)
	}

	if len(mock.messages) != 1 {
		t.Errorf("expected 1 message, got %d", len(mock.messages))
	}
}

func TestRemoveArcsPublishes(t *testing.T) {
	feed, mock := newTestFeed(t)
	ctx := context.Background()

	if _, err := feed.AddArcs(ctx, []graphline.Arc{{Tail: 1, Head: 2}}); err != nil {
		t.Fatalf("AddArcs failed: %v", err)
	}
	removed, err := feed.RemoveArcs(ctx, []graphline.Arc{{Tail: 1, Head: 2}})
	if err != nil {
		t.Fatalf("RemoveArcs failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 arc removed, got %d", removed)
	}

	if len(mock.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(mock.messages))
	}
	if mock.messages[1].Subject != "graph.arcs.removed" {
		t.Errorf("expected subject %q, got %q", "graph.arcs.removed", mock.messages[1].Subject)
	}
}

func TestReplaceSuccessorsPublishes(t *testing.T) {
	feed, mock := newTestFeed(t)
	ctx := context.Background()

	if err := feed.ReplaceSuccessors(ctx, 1, []graphline.NodeID{2, 3}); err != nil {
		t.Fatalf("ReplaceSuccessors failed: %v", err)
	}

	if len(mock.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.messages))
	}
	msg := mock.messages[0]
	if msg.Subject != "graph.arcs.replaced" {
		t.Errorf("expected subject %q, got %q", "graph.arcs.replaced", msg.Subject)
	}

	var e event
	if err := json.Unmarshal(msg.Data, &e); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}
	if e.Node != 1 {
		t.Errorf("expected node 1, got %d", e.Node)
	}
	expected := []graphline.Arc{{Tail: 1, Head: 2}, {Tail: 1, Head: 3}}
	if len(e.Arcs) != len(expected) {
		t.Fatalf("expected %d arcs, got %d", len(expected), len(e.Arcs))
	}
	for i, arc := range expected {
		if e.Arcs[i] != arc {
			t.Errorf("arc %d: expected %v, got %v", i, arc, e.Arcs[i])
		}
	}
}

func TestClearPublishes(t *testing.T) {
	feed, mock := newTestFeed(t)
	ctx := context.Background()

	if err := feed.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if len(mock.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.messages))
	}
	if mock.messages[0].Subject != "graph.arcs.cleared" {
		t.Errorf("expected subject %q, got %q", "graph.arcs.cleared", mock.messages[0].Subject)
	}
}

func TestCustomHeaders(t *testing.T) {
	mock := &mockPublisher{}
	feed, err := WrapWithPublisher(memgraph.New(), mock, Config{
		SubjectPrefix: "graph",
		Headers: nats.Header{
			"source": []string{"graphline"},
			"env":    []string{"test"},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ctx := context.Background()
	if err := feed.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	if _, err := feed.AddArcs(ctx, []graphline.Arc{{Tail: 1, Head: 2}}); err != nil {
		t.Fatalf("AddArcs failed: %v", err)
	}

	if len(mock.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(mock.messages))
	}
	msg := mock.messages[0]
	if msg.Header.Get("source") != "graphline" {
		t.Errorf("expected source header 'graphline', got %q", msg.Header.Get("source"))
	}
	if msg.Header.Get("env") != "test" {
		t.Errorf("expected env header 'test', got %q", msg.Header.Get("env"))
	}
}

func TestReadsDelegate(t *testing.T) {
	feed, mock := newTestFeed(t)
	ctx := context.Background()

	if _, err := feed.AddArcs(ctx, []graphline.Arc{{Tail: 1, Head: 2}, {Tail: 2, Head: 3}}); err != nil {
		t.Fatalf("AddArcs failed: %v", err)
	}
	published := len(mock.messages)

	succ, err := feed.Successors(ctx, 1)
	if err != nil {
		t.Fatalf("Successors failed: %v", err)
	}
	if len(succ) != 1 || succ[0] != 2 {
		t.Errorf("expected successors [2], got %v", succ)
	}

	stats, err := feed.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Arcs != 2 {
		t.Errorf("expected 2 arcs, got %d", stats.Arcs)
	}

	if len(mock.messages) != published {
		t.Errorf("reads should not publish, got %d extra messages", len(mock.messages)-published)
	}
}
