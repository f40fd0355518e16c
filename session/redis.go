package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed [Store]. Each client scope maps to one string
// key, so single-key last-write-wins semantics come from Redis itself.
//
//	Key layout: <prefix>:<client>:<storageKey>
type RedisStore struct {
	redis      redis.UniversalClient
	prefix     string
	storageKey string
	ttl        time.Duration
}

// NewRedisStore creates a [RedisStore]. An empty storageKey selects
// [DefaultStorageKey]; ttl <= 0 stores records without expiry.
func NewRedisStore(client redis.UniversalClient, prefix, storageKey string, ttl time.Duration) *RedisStore {
	if storageKey == "" {
		storageKey = DefaultStorageKey
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{
		redis:      client,
		prefix:     prefix,
		storageKey: storageKey,
		ttl:        ttl,
	}
}

func (s *RedisStore) key(ctx context.Context) string {
	return s.prefix + ":" + ClientFromContext(ctx) + ":" + s.storageKey
}

// Get fetches the raw record.
//
//	Performance: 1 Redis GET.
func (s *RedisStore) Get(ctx context.Context) ([]byte, error) {
	data, err := s.redis.Get(ctx, s.key(ctx)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return data, nil
}

// Set overwrites the record.
//
//	Performance: 1 Redis SET.
func (s *RedisStore) Set(ctx context.Context, raw []byte) error {
	if err := s.redis.Set(ctx, s.key(ctx), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Clear deletes the record.
//
//	Performance: 1 Redis DEL.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key(ctx)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
