//go:build integration

package secrets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgate/internal/platform/config"
	platformredis "eventgate/internal/platform/redis"
	"eventgate/internal/secrets"
	"eventgate/pkg/platform/sentinel"
	"eventgate/pkg/testutil/containers"
)

func TestRedisSource(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	client, err := platformredis.New(config.RedisConfig{URL: rc.URL, PoolSize: 2, MinIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	t.Run("fetches the configured parameter", func(t *testing.T) {
		require.NoError(t, rc.Client.Set(ctx, "eventgate/jwt-secret", "s3cr3t", 0).Err())

		source := secrets.NewRedisSource(client, "eventgate/jwt-secret")
		got, err := source.Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, "s3cr3t", got)
	})

	t.Run("missing parameter is not found", func(t *testing.T) {
		source := secrets.NewRedisSource(client, "eventgate/absent")
		_, err := source.Fetch(ctx)
		assert.True(t, errors.Is(err, sentinel.ErrNotFound))
	})
}
