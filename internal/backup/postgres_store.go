package backup

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderlist/wanderlist/internal/item"
)

// PostgresStore is a PostgreSQL implementation of Store. Snapshots are
// stored as JSONB payloads.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL snapshot store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save appends a snapshot.
func (s *PostgresStore) Save(ctx context.Context, snap *Snapshot) error {
	payload, err := json.Marshal(snap.Items)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO backups (id, user_id, payload, created_at)
		VALUES ($1, $2, $3, $4)
	`, snap.ID, snap.UserID, payload, snap.CreatedAt)
	return err
}

// Latest returns the most recent snapshot for the user.
func (s *PostgresStore) Latest(ctx context.Context, userID string) (*Snapshot, error) {
	var (
		snap    Snapshot
		payload []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, payload, created_at
		FROM backups
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID).Scan(&snap.ID, &snap.UserID, &payload, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoBackup
		}
		return nil, err
	}

	var items []*item.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}
	snap.Items = items
	return &snap, nil
}
