package pricing

import (
	"context"

	id "relomate/pkg/domain"
)

// Store persists per-user price overrides. Implementations return
// sentinel.ErrNotFound when no override exists for the user and track.
type Store interface {
	Get(ctx context.Context, userID id.UserID, track id.RelocationType) (*Override, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]Override, error)
	Upsert(ctx context.Context, override Override) error
	Delete(ctx context.Context, userID id.UserID, track id.RelocationType) error
}
