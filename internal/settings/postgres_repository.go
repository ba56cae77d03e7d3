package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL settings repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a user's settings.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, proximity_range_meters, speech_enabled, updated_at
		FROM settings
		WHERE user_id = $1
	`, userID).Scan(&s.UserID, &s.ProximityRangeMeters, &s.SpeechEnabled, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Put stores a user's settings.
func (r *PostgresRepository) Put(ctx context.Context, s *Settings) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settings (user_id, proximity_range_meters, speech_enabled, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			proximity_range_meters = EXCLUDED.proximity_range_meters,
			speech_enabled = EXCLUDED.speech_enabled,
			updated_at = EXCLUDED.updated_at
	`, s.UserID, s.ProximityRangeMeters, s.SpeechEnabled, s.UpdatedAt)
	return err
}
