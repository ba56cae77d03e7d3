// Package backup implements the simulated cloud mirror: full item-list
// snapshots stored with an artificial delay standing in for network
// latency.
package backup

import (
	"context"
	"errors"
	"time"

	"github.com/wanderlist/wanderlist/internal/item"
)

// ErrNoBackup indicates no snapshot exists for the user.
var ErrNoBackup = errors.New("no backup snapshot")

// Snapshot is one full copy of a user's item list.
type Snapshot struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	Items     []*item.Item `json:"items"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Store persists snapshots.
type Store interface {
	// Save appends a snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot for the user, or ErrNoBackup.
	Latest(ctx context.Context, userID string) (*Snapshot, error)
}
