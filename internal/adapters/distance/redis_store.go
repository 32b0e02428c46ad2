package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/andrescamacho/voyage-estimator/internal/domain/routing"
)

const redisKeyPrefix = "distance:"

// RedisStore shares resolved corridors between distance service replicas
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to a redis:// URL. A zero ttl keeps entries forever.
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &RedisStore{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (routing.DistanceResult, bool, error) {
	data, err := s.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return routing.DistanceResult{}, false, nil
	}
	if err != nil {
		return routing.DistanceResult{}, false, err
	}

	var result routing.DistanceResult
	if err := json.Unmarshal(data, &result); err != nil {
		return routing.DistanceResult{}, false, fmt.Errorf("corrupt distance entry %s: %w", key, err)
	}
	return result, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, result routing.DistanceResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisKeyPrefix+key, data, s.ttl).Err()
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
