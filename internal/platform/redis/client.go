// Package redis holds the shared Redis client used by the secret source and
// the summary object store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"eventgate/internal/platform/config"
)

// Client embeds the go-redis client so callers get its full command surface
// behind one construction point.
type Client struct {
	*redis.Client
}

// New connects using the configured URL and verifies the connection with a
// ping. Returns nil without error when no URL is set, so callers can fall
// back to in-memory stores.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
