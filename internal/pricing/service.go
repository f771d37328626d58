package pricing

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	id "relomate/pkg/domain"
	dErrors "relomate/pkg/domain-errors"
	"relomate/pkg/platform/audit"
	"relomate/pkg/platform/sentinel"
	"relomate/pkg/requestcontext"
)

// AuditPublisher receives pricing audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service resolves effective prices and manages per-user overrides.
type Service struct {
	store  Store
	logger *slog.Logger
	audit  AuditPublisher
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPrice returns the effective price for a user and track: the override
// when one exists, the list price otherwise.
func (s *Service) GetPrice(ctx context.Context, userID id.UserID, track id.RelocationType) (Price, error) {
	if !track.IsValid() {
		return Price{}, dErrors.New(dErrors.CodeInvalidInput, "unknown relocation track")
	}

	override, err := s.store.Get(ctx, userID, track)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return defaultPrices[track], nil
		}
		return Price{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load price override")
	}
	return Price{
		Track:      track,
		Amount:     override.Amount,
		Currency:   override.Currency,
		Overridden: true,
	}, nil
}

// ListOverrides returns all overrides for a user.
func (s *Service) ListOverrides(ctx context.Context, userID id.UserID) ([]Override, error) {
	overrides, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list price overrides")
	}
	return overrides, nil
}

// SetOverride creates or replaces a per-user price.
func (s *Service) SetOverride(ctx context.Context, override Override) (*Override, error) {
	override.Currency = strings.ToUpper(strings.TrimSpace(override.Currency))
	if fields := override.Validate(); fields != nil {
		return nil, dErrors.NewValidation("invalid price override", fields)
	}

	now := requestcontext.Now(ctx)
	override.UpdatedAt = now
	if existing, err := s.store.Get(ctx, override.UserID, override.Track); err == nil {
		override.CreatedAt = existing.CreatedAt
	} else {
		override.CreatedAt = now
	}

	if err := s.store.Upsert(ctx, override); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save price override")
	}

	s.emit(ctx, override.UserID, audit.EventPricingOverrideSet, override.Track,
		override.Amount.StringFixed(2)+" "+override.Currency)
	return &override, nil
}

// RemoveOverride deletes a per-user price, restoring the list price.
func (s *Service) RemoveOverride(ctx context.Context, userID id.UserID, track id.RelocationType) error {
	if !track.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown relocation track")
	}
	if err := s.store.Delete(ctx, userID, track); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "no price override for this user and track")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete price override")
	}

	s.emit(ctx, userID, audit.EventPricingOverrideRemoved, track, "")
	return nil
}

func (s *Service) emit(ctx context.Context, userID id.UserID, action audit.AuditEvent, track id.RelocationType, detail string) {
	if s.audit == nil {
		return
	}
	event := audit.Event{
		Category:  audit.CategoryCompliance,
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID,
		Action:    string(action),
		Track:     track.String(),
		Detail:    detail,
		ActorID:   "admin",
		RequestID: requestcontext.RequestID(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err.Error(),
		)
	}
}
