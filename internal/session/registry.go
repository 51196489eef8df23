package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by a Registry for an unknown or expired key.
var ErrNotFound = errors.New("session not found")

// Registry keeps session contexts between requests, keyed by client key.
type Registry interface {
	Get(ctx context.Context, key string) (*Context, error)
	Put(ctx context.Context, sc *Context) error
	Delete(ctx context.Context, key string) error
}

// MemoryRegistry is an in-process Registry. Stored values are copies.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Context
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: make(map[string]*Context)}
}

func (r *MemoryRegistry) Get(_ context.Context, key string) (*Context, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sc, ok := r.sessions[key]
	if !ok {
		return nil, ErrNotFound
	}
	return sc.Clone(), nil
}

func (r *MemoryRegistry) Put(_ context.Context, sc *Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sc.Key] = sc.Clone()
	return nil
}

func (r *MemoryRegistry) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
	return nil
}

const redisKeyPrefix = "moviemind:session:"

// RedisRegistry stores contexts as JSON values with a sliding TTL.
type RedisRegistry struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRegistry(rdb *redis.Client, ttl time.Duration) *RedisRegistry {
	return &RedisRegistry{rdb: rdb, ttl: ttl}
}

func (r *RedisRegistry) Get(ctx context.Context, key string) (*Context, error) {
	data, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var sc Context
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sc, nil
}

func (r *RedisRegistry) Put(ctx context.Context, sc *Context) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+sc.Key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, redisKeyPrefix+key).Err()
}
