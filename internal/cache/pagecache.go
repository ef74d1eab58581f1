package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

const (
	// PageKeyPrefix namespaces rendered pages in Redis so Clear never touches other keys.
	PageKeyPrefix = "page:"
	// MemoryPageLimit bounds the in-process store.
	MemoryPageLimit = 1024

	clearScanCount = 100
)

// PageStore is a keyed store of rendered responses with an explicit Clear.
// It satisfies fiber.Storage so the framework cache middleware can use it.
type PageStore interface {
	fiber.Storage
	Clear(ctx context.Context) error
	// Backend names the implementation for logs and health output.
	Backend() string
}

// NewPageStore returns a Redis-backed store when rdb is set, otherwise an
// in-process LRU whose entries expire after ttl.
func NewPageStore(rdb *redis.Client, ttl time.Duration) PageStore {
	if rdb != nil {
		return NewRedisPageStore(rdb)
	}
	return NewMemoryPageStore(MemoryPageLimit, ttl)
}

// RedisPageStore keeps pages under PageKeyPrefix in Redis.
type RedisPageStore struct {
	rdb *redis.Client
}

// NewRedisPageStore wraps an existing client. The store does not own it.
func NewRedisPageStore(rdb *redis.Client) *RedisPageStore {
	return &RedisPageStore{rdb: rdb}
}

func (s *RedisPageStore) Backend() string { return "redis" }

// Get returns nil without error for a missing key.
func (s *RedisPageStore) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	val, err := s.rdb.Get(context.Background(), PageKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *RedisPageStore) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.rdb.Set(context.Background(), PageKeyPrefix+key, val, exp).Err()
}

func (s *RedisPageStore) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.rdb.Del(context.Background(), PageKeyPrefix+key).Err()
}

// Clear removes every page key using SCAN so Redis is never blocked by KEYS.
func (s *RedisPageStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, PageKeyPrefix+"*", clearScanCount).Result()
		if err != nil {
			return fmt.Errorf("scan page keys: %w", err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete page keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *RedisPageStore) Reset() error {
	return s.Clear(context.Background())
}

// Close is a no-op; the client is closed by its owner.
func (s *RedisPageStore) Close() error {
	return nil
}

// MemoryPageStore is the in-process fallback. Every entry shares the TTL
// given at construction; the per-call expiration passed to Set is ignored.
type MemoryPageStore struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryPageStore builds an LRU of at most size pages.
func NewMemoryPageStore(size int, ttl time.Duration) *MemoryPageStore {
	return &MemoryPageStore{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (s *MemoryPageStore) Backend() string { return "memory" }

func (s *MemoryPageStore) Get(key string) ([]byte, error) {
	val, ok := s.lru.Get(key)
	if !ok {
		return nil, nil
	}
	return val, nil
}

func (s *MemoryPageStore) Set(key string, val []byte, _ time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	s.lru.Add(key, val)
	return nil
}

func (s *MemoryPageStore) Delete(key string) error {
	s.lru.Remove(key)
	return nil
}

func (s *MemoryPageStore) Clear(_ context.Context) error {
	s.lru.Purge()
	return nil
}

func (s *MemoryPageStore) Reset() error {
	return s.Clear(context.Background())
}

func (s *MemoryPageStore) Close() error {
	return nil
}

// Len reports the number of live entries.
func (s *MemoryPageStore) Len() int {
	return s.lru.Len()
}
