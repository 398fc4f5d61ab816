package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "storefront:snapshot:"

// redisCmdable is the subset of the go-redis client used by redisStorage.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// redisStorage implements Storage on Redis string keys.
type redisStorage struct {
	client redisCmdable
	closer func() error
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStorage connects to the Redis server at url and verifies it with a ping.
// A zero ttl keeps snapshots until they are overwritten or deleted.
func NewRedisStorage(ctx context.Context, url string, ttl time.Duration, logger zerolog.Logger) (Storage, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("redis storage initialised")

	return newRedisStorage(client, client.Close, ttl, logger), nil
}

func newRedisStorage(client redisCmdable, closer func() error, ttl time.Duration, logger zerolog.Logger) *redisStorage {
	return &redisStorage{
		client: client,
		closer: closer,
		ttl:    ttl,
		logger: logger.With().Str("component", "redis-storage").Logger(),
	}
}

// RedisKey returns the namespaced Redis key a snapshot key is stored under.
func RedisKey(key string) string {
	return redisKeyPrefix + key
}

func (s *redisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, RedisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return data, nil
}

func (s *redisStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, RedisKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	return nil
}

func (s *redisStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, RedisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}

func (s *redisStorage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
