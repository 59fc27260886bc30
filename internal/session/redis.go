package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "resellscan:session:"

// deleteIfOwned removes the registration only when it still holds the
// given session id, atomically on the Redis side.
var deleteIfOwned = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisStore is a Store backed by a shared Redis instance, giving the
// registry the cross-device visibility the heartbeat protocol needs.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (string, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session registration: %w", err)
	}
	return value, nil
}

func (s *RedisStore) Put(ctx context.Context, userID, sessionID string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+userID, sessionID, 0).Err(); err != nil {
		return fmt.Errorf("failed to register session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID, sessionID string) error {
	if err := deleteIfOwned.Run(ctx, s.client, []string{redisKeyPrefix + userID}, sessionID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to unregister session: %w", err)
	}
	return nil
}
