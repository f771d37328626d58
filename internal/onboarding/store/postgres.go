package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"relomate/internal/onboarding"
	id "relomate/pkg/domain"
	"relomate/pkg/platform/sentinel"
)

// PostgresStore is the system of record for onboarding state. The record
// is stored as one jsonb document per user: the state is always read and
// written whole, and the step payload shapes evolve faster than a
// normalized schema would keep up with.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS onboarding_states (
			user_id    UUID PRIMARY KEY,
			state      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure onboarding schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, userID id.UserID) (*onboarding.State, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM onboarding_states WHERE user_id = $1`,
		userID.String(),
	).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load onboarding state: %w", err)
	}

	var state onboarding.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode onboarding state: %w", err)
	}
	return &state, nil
}

func (s *PostgresStore) Save(ctx context.Context, state *onboarding.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode onboarding state: %w", err)
	}
	query := `
		INSERT INTO onboarding_states (user_id, state, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			state = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, state.UserID.String(), raw, state.UpdatedAt); err != nil {
		return fmt.Errorf("save onboarding state: %w", err)
	}
	return nil
}
