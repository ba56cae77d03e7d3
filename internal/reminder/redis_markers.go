package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// markerTTL keeps marker keys around long enough to cover the calendar day
// in any timezone, then lets Redis expire them.
const markerTTL = 48 * time.Hour

// RedisMarkerStore records reminder markers in Redis so the idempotency
// guarantee survives worker restarts.
type RedisMarkerStore struct {
	client *redis.Client
}

// NewRedisMarkerStore creates a marker store backed by the given client.
func NewRedisMarkerStore(client *redis.Client) *RedisMarkerStore {
	return &RedisMarkerStore{client: client}
}

// TryMark claims the marker with SET NX, returning false if another check
// already claimed it.
func (s *RedisMarkerStore) TryMark(ctx context.Context, userID, date string, slot Slot) (bool, error) {
	key := fmt.Sprintf("reminder:%s:%s:%s", userID, date, slot)

	ok, err := s.client.SetNX(ctx, key, 1, markerTTL).Result()
	if err != nil {
		return false, fmt.Errorf("claiming reminder marker: %w", err)
	}
	return ok, nil
}
