package chat

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ContextStore remembers the last department discussed in a chat session
type ContextStore interface {
	SaveLastDepartment(ctx context.Context, key, department string) error
	GetLastDepartment(ctx context.Context, key string) (string, error)
	ClearLastDepartment(ctx context.Context, key string) error
}

type RedisContextStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewContextStore returns a Redis backed store, or a no-op one when rdb is nil
func NewContextStore(rdb *redis.Client, ttl time.Duration) ContextStore {
	if rdb == nil {
		return NopContextStore{}
	}
	return &RedisContextStore{rdb: rdb, ttl: ttl}
}

func contextKey(key string) string {
	return "chat_context:" + key
}

func (s *RedisContextStore) SaveLastDepartment(ctx context.Context, key, department string) error {
	return s.rdb.Set(ctx, contextKey(key), department, s.ttl).Err()
}

// GetLastDepartment returns "" when nothing is remembered
func (s *RedisContextStore) GetLastDepartment(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, contextKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *RedisContextStore) ClearLastDepartment(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, contextKey(key)).Err()
}

type NopContextStore struct{}

func (NopContextStore) SaveLastDepartment(context.Context, string, string) error { return nil }
func (NopContextStore) GetLastDepartment(context.Context, string) (string, error) {
	return "", nil
}
func (NopContextStore) ClearLastDepartment(context.Context, string) error { return nil }
