// Package secrets provides access to the signing secret held in an external
// secret store. The secret is string-valued, fetched by a configured
// parameter name, and must never be logged or placed in any response.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	platformredis "eventgate/internal/platform/redis"
	"eventgate/pkg/platform/sentinel"
)

// Source yields the current signing secret. Fetch blocks on the backing
// store; callers treat any error as the secret being unavailable and must
// fail closed.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// RedisSource reads the secret from a Redis-backed parameter store.
type RedisSource struct {
	client *platformredis.Client
	param  string
}

// NewRedisSource builds a source reading the given parameter name.
func NewRedisSource(client *platformredis.Client, param string) *RedisSource {
	return &RedisSource{client: client, param: param}
}

func (s *RedisSource) Fetch(ctx context.Context) (string, error) {
	value, err := s.client.Get(ctx, s.param).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("secret parameter not set: %w", sentinel.ErrNotFound)
		}
		return "", fmt.Errorf("secret store: %w", sentinel.ErrUnavailable)
	}
	if value == "" {
		return "", fmt.Errorf("secret parameter empty: %w", sentinel.ErrNotFound)
	}
	return value, nil
}

// StaticSource serves a fixed secret from configuration. Development only.
type StaticSource struct {
	value string
}

func NewStaticSource(value string) *StaticSource {
	return &StaticSource{value: value}
}

func (s *StaticSource) Fetch(_ context.Context) (string, error) {
	if s.value == "" {
		return "", fmt.Errorf("no static secret configured: %w", sentinel.ErrNotFound)
	}
	return s.value, nil
}
