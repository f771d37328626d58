package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	id "relomate/pkg/domain"
	"relomate/pkg/platform/sentinel"
)

// PostgresStore persists overrides in postgres via a pgx pool. Amounts
// live in a NUMERIC column and cross the wire as text so no float ever
// touches a price.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS pricing_overrides (
			user_id    UUID NOT NULL,
			track      TEXT NOT NULL,
			amount     NUMERIC(12,2) NOT NULL,
			currency   CHAR(3) NOT NULL,
			note       TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, track)
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure pricing schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID, track id.RelocationType) (*Override, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, track, amount::text, currency, note, created_at, updated_at
		FROM pricing_overrides
		WHERE user_id = $1 AND track = $2`,
		userID.String(), track.String(),
	)
	override, err := scanOverride(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get pricing override: %w", err)
	}
	return override, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]Override, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, track, amount::text, currency, note, created_at, updated_at
		FROM pricing_overrides
		WHERE user_id = $1
		ORDER BY track`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list pricing overrides: %w", err)
	}
	defer rows.Close()

	var out []Override
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pricing override: %w", err)
		}
		out = append(out, *override)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Upsert(ctx context.Context, override Override) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pricing_overrides (user_id, track, amount, currency, note, created_at, updated_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7)
		ON CONFLICT (user_id, track) DO UPDATE SET
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at`,
		override.UserID.String(), override.Track.String(),
		override.Amount.String(), override.Currency, override.Note,
		override.CreatedAt, override.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert pricing override: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID, track id.RelocationType) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM pricing_overrides WHERE user_id = $1 AND track = $2`,
		userID.String(), track.String(),
	)
	if err != nil {
		return fmt.Errorf("delete pricing override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanOverride(row pgx.Row) (*Override, error) {
	var (
		override       Override
		rawUser, track string
		amount         string
	)
	if err := row.Scan(&rawUser, &track, &amount, &override.Currency, &override.Note,
		&override.CreatedAt, &override.UpdatedAt); err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(rawUser)
	if err != nil {
		return nil, err
	}
	override.UserID = userID
	override.Track = id.RelocationType(track)
	override.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	return &override, nil
}
