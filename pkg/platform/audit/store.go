package audit

import (
	"context"

	id "relomate/pkg/domain"
)

// Store persists audit events and supports per-user retrieval.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Sink is a write-only destination for events, e.g. a Kafka topic.
// Sinks are best-effort unless the publisher is configured otherwise.
type Sink interface {
	Append(ctx context.Context, event Event) error
}
