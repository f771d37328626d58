// Package publisher emits audit events to the configured store and sinks.
//
// The default mode is synchronous: Emit blocks until the store write
// succeeds, so callers on compliance paths can fail closed. With
// WithAsyncBuffer, events are queued and written by a background goroutine;
// Emit then only fails when the buffer is full.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	id "relomate/pkg/domain"
	audit "relomate/pkg/platform/audit"
)

type Publisher struct {
	store  audit.Store
	sinks  []audit.Sink
	logger *slog.Logger

	inbox  chan audit.Event
	done   chan struct{}
	closer sync.Once
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for sink failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// WithAsyncBuffer switches the publisher to asynchronous mode with the
// given queue size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) { p.inbox = make(chan audit.Event, size) }
}

// WithSink adds a best-effort secondary destination (e.g. Kafka). Sink
// failures are logged, never surfaced to the emitting operation.
func WithSink(sink audit.Sink) Option {
	return func(p *Publisher) { p.sinks = append(p.sinks, sink) }
}

// NewPublisher creates a publisher writing to the given store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		go p.drain()
	}
	return p
}

// Emit records an audit event. In synchronous mode the event is persisted
// before Emit returns; in asynchronous mode it is queued.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Action == "" {
		return fmt.Errorf("audit event requires an action")
	}

	if p.inbox == nil {
		return p.write(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	default:
		return fmt.Errorf("audit buffer full, dropping %s", event.Action)
	}
}

// List returns the recorded events for a user.
func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	return p.store.ListByUser(ctx, userID)
}

// Close stops the background writer, flushing queued events first.
func (p *Publisher) Close() {
	p.closer.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			<-p.done
		}
	})
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		if err := p.write(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"action", event.Action,
				"user_id", event.UserID,
				"error", err,
			)
		}
	}
}

func (p *Publisher) write(ctx context.Context, event audit.Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	for _, sink := range p.sinks {
		if err := sink.Append(ctx, event); err != nil && p.logger != nil {
			p.logger.Warn("audit sink append failed",
				"action", event.Action,
				"error", err,
			)
		}
	}
	return nil
}
