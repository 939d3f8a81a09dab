package natsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"maps"

	"github.com/graphline/graphline"
	"github.com/nats-io/nats.go"
)

// Publisher defines the interface for publishing messages to NATS.
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
}

// Config configures the NATS feed.
type Config struct {
	// SubjectPrefix is the subject prefix for published messages.
	SubjectPrefix string
	// Logger is used for structured logging.
	Logger *slog.Logger
	// MaxRetries is the number of retries for failed publishes.
	MaxRetries int
	// Headers are added to NATS messages.
	Headers nats.Header
}

// Feed wraps a store and publishes each successful mutation to NATS.
// Reads pass through to the underlying store untouched.
type Feed struct {
	store     graphline.Store
	config    Config
	publisher Publisher
	logger    *slog.Logger
}

// Wrap creates a feed over an existing NATS connection.
func Wrap(store graphline.Store, nc *nats.Conn, config Config) (*Feed, error) {
	if nc == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	return WrapWithPublisher(store, nc, config)
}

// WrapWithPublisher creates a feed with a custom publisher.
// This constructor is useful for testing with mock publishers.
func WrapWithPublisher(store graphline.Store, publisher Publisher, config Config) (*Feed, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher cannot be nil")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	return &Feed{
		store:     store,
		config:    config,
		publisher: publisher,
		logger:    config.Logger,
	}, nil
}

type event struct {
	Action string           `json:"action"`
	Node   graphline.NodeID `json:"node,omitempty"`
	Arcs   []graphline.Arc  `json:"arcs,omitempty"`
	Count  int              `json:"count"`
}

func (f *Feed) Init(ctx context.Context) error {
	return f.store.Init(ctx)
}

func (f *Feed) AddArcs(ctx context.Context, arcs []graphline.Arc) (added int, err error) {
	added, err = f.store.AddArcs(ctx, arcs)
	if err != nil {
		return added, err
	}
	if added > 0 {
		f.publish(ctx, event{Action: "added", Arcs: arcs, Count: added})
	}
	return added, nil
}

func (f *Feed) RemoveArcs(ctx context.Context, arcs []graphline.Arc) (removed int, err error) {
	removed, err = f.store.RemoveArcs(ctx, arcs)
	if err != nil {
		return removed, err
	}
	if removed > 0 {
		f.publish(ctx, event{Action: "removed", Arcs: arcs, Count: removed})
	}
	return removed, nil
}

func (f *Feed) Successors(ctx context.Context, node graphline.NodeID) ([]graphline.NodeID, error) {
	return f.store.Successors(ctx, node)
}

func (f *Feed) Predecessors(ctx context.Context, node graphline.NodeID) ([]graphline.NodeID, error) {
	return f.store.Predecessors(ctx, node)
}

func (f *Feed) ReplaceSuccessors(ctx context.Context, node graphline.NodeID, heads []graphline.NodeID) error {
	if err := f.store.ReplaceSuccessors(ctx, node, heads); err != nil {
		return err
	}
	arcs := make([]graphline.Arc, len(heads))
	for i, head := range heads {
		arcs[i] = graphline.Arc{Tail: node, Head: head}
	}
	f.publish(ctx, event{Action: "replaced", Node: node, Arcs: arcs, Count: len(arcs)})
	return nil
}

func (f *Feed) ReplacePredecessors(ctx context.Context, node graphline.NodeID, tails []graphline.NodeID) error {
	if err := f.store.ReplacePredecessors(ctx, node, tails); err != nil {
		return err
	}
	arcs := make([]graphline.Arc, len(tails))
	for i, tail := range tails {
		arcs[i] = graphline.Arc{Tail: tail, Head: node}
	}
	f.publish(ctx, event{Action: "replaced", Node: node, Arcs: arcs, Count: len(arcs)})
	return nil
}

func (f *Feed) Roots(ctx context.Context) ([]graphline.NodeID, error) {
	return f.store.Roots(ctx)
}

func (f *Feed) Leaves(ctx context.Context) ([]graphline.NodeID, error) {
	return f.store.Leaves(ctx)
}

func (f *Feed) Stats(ctx context.Context) (graphline.Stats, error) {
	return f.store.Stats(ctx)
}

func (f *Feed) Clear(ctx context.Context) error {
	if err := f.store.Clear(ctx); err != nil {
		return err
	}
	f.publish(ctx, event{Action: "cleared"})
	return nil
}

// publish sends the event to NATS with retries. Publish failures are logged
// rather than returned, the store mutation has already been applied.
func (f *Feed) publish(ctx context.Context, e event) {
	data, err := json.Marshal(e)
	if err != nil {
		f.logger.Error("Failed to marshal event", slog.String("action", e.Action), slog.String("error", err.Error()))
		return
	}

	msg := &nats.Msg{
		Subject: f.buildSubject(e.Action),
		Data:    data,
		Header:  make(nats.Header),
	}
	maps.Copy(msg.Header, f.config.Headers)
	msg.Header.Set("graph-action", e.Action)
	msg.Header.Set("graph-count", fmt.Sprintf("%d", e.Count))

	var lastErr error
	for attempt := 0; attempt <= f.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				f.logger.Warn("Context canceled while publishing", slog.String("action", e.Action))
				return
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		err := f.publisher.PublishMsg(msg)
		if err == nil {
			f.logger.Debug("Published event",
				slog.String("subject", msg.Subject),
				slog.String("action", e.Action),
				slog.Int("count", e.Count))
			return
		}
		lastErr = err
		f.logger.Warn("Failed to publish, retrying",
			slog.Int("attempt", attempt+1),
			slog.Int("maxRetries", f.config.MaxRetries),
			slog.String("error", err.Error()))
	}

	f.logger.Error("Failed to publish after all retries",
		slog.String("subject", msg.Subject),
		slog.String("action", e.Action),
		slog.Int("attempts", f.config.MaxRetries+1),
		slog.String("error", lastErr.Error()))
}

// buildSubject constructs the NATS subject for an action.
func (f *Feed) buildSubject(action string) string {
	var parts []string
	if f.config.SubjectPrefix != "" {
		parts = append(parts, f.config.SubjectPrefix)
	}
	parts = append(parts, "arcs", action)
	return strings.Join(parts, ".")
}
