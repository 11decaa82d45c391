package object

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	platformredis "eventgate/internal/platform/redis"
	"eventgate/pkg/platform/sentinel"
)

// RedisObjectStore keeps summary artifacts as plain keys. SET semantics give
// the overwrite-on-same-name behavior the aggregator relies on.
type RedisObjectStore struct {
	client *platformredis.Client
}

func NewRedis(client *platformredis.Client) *RedisObjectStore {
	return &RedisObjectStore{client: client}
}

func (s *RedisObjectStore) Put(ctx context.Context, name string, payload []byte) error {
	if err := s.client.Set(ctx, name, payload, 0).Err(); err != nil {
		return fmt.Errorf("put object %s: %w", name, sentinel.ErrUnavailable)
	}
	return nil
}

func (s *RedisObjectStore) Get(ctx context.Context, name string) ([]byte, error) {
	payload, err := s.client.Get(ctx, name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", name, sentinel.ErrUnavailable)
	}
	return payload, nil
}
