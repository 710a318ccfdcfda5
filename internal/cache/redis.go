package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/api"
)

const (
	redisKeyPrefix  = "jadwal-sholat:timings:"
	DefaultRedisTTL = 48 * time.Hour
)

// NewRedisClient connects to a single Redis node on DB 0.
func NewRedisClient(addr, username, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       0,
	})
}

// RedisStore shares cached timings between server instances.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore wraps rdb. A non-positive ttl uses DefaultRedisTTL.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(k Key) string {
	return redisKeyPrefix + k.Hash()
}

// Load fetches timings for k. Unlike FileStore, connection errors are returned.
func (s *RedisStore) Load(ctx context.Context, k Key) (*Entry, error) {
	raw, err := s.rdb.Get(ctx, redisKey(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Corrupt values are dropped so the next Save can replace them.
		s.rdb.Del(ctx, redisKey(k))
		return nil, nil
	}
	if entry.Date != k.Day() {
		return nil, nil
	}
	return &entry, nil
}

// Save stores timings for k with the store's TTL.
func (s *RedisStore) Save(ctx context.Context, k Key, resp *api.Response) error {
	data, err := json.Marshal(NewEntry(k, resp))
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(k), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
