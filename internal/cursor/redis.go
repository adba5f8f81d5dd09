package cursor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "raindrop:watch:"

// RedisStore keeps watch cursors in Redis so multiple server instances
// observe the same baseline.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func cursorKey(collectionID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, collectionID)
}

func (s *RedisStore) Get(ctx context.Context, collectionID int64) (time.Time, bool, error) {
	raw, err := s.client.Get(ctx, cursorKey(collectionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("get watch cursor: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse watch cursor: %w", err)
	}
	return at, true, nil
}

func (s *RedisStore) Set(ctx context.Context, collectionID int64, at time.Time) error {
	if err := s.client.Set(ctx, cursorKey(collectionID), at.UTC().Format(time.RFC3339Nano), 0).Err(); err != nil {
		return fmt.Errorf("save watch cursor: %w", err)
	}
	return nil
}
