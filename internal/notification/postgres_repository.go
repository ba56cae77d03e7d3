package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL notification repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Append adds a notification and trims the log to MaxRetained entries.
func (r *PostgresRepository) Append(ctx context.Context, n *Notification) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, message, timestamp, read, type, related_item_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, n.ID, n.UserID, n.Title, n.Message, n.Timestamp, n.Read, string(n.Type), n.RelatedItemID)
	if err != nil {
		return err
	}

	// Keep only the MaxRetained most recent entries for the user.
	_, err = tx.Exec(ctx, `
		DELETE FROM notifications
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM notifications
			WHERE user_id = $1
			ORDER BY timestamp DESC, id DESC
			LIMIT $2
		)
	`, n.UserID, MaxRetained)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// List retrieves a user's notifications, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, message, timestamp, read, type, related_item_id
		FROM notifications
		WHERE user_id = $1
		ORDER BY timestamp DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Notification
	for rows.Next() {
		var n Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Timestamp, &n.Read, &typ, &n.RelatedItemID); err != nil {
			return nil, err
		}
		n.Type = Type(typ)
		out = append(out, &n)
	}

	return out, rows.Err()
}

// MarkRead marks a single notification as read.
func (r *PostgresRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks all of a user's notifications as read.
func (r *PostgresRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1`, userID)
	return err
}

// Clear removes all of a user's notifications.
func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	return err
}
