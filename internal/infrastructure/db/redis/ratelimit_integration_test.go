//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *FixedWindowLimiter {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "start redis container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client, err := Connect(ctx, Config{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewFixedWindowLimiter(client)
}

func TestFixedWindowLimiter(t *testing.T) {
	limiter := startRedis(t)
	ctx := context.Background()

	fixed := time.Date(2026, 1, 1, 12, 0, 10, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		require.True(t, ok, "hit %d", i+1)
	}
	ok, err := limiter.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	require.False(t, ok, "fourth hit in the window must be refused")

	ok, err = limiter.Allow(ctx, "login:10.0.0.2", 3, time.Minute)
	require.NoError(t, err)
	require.True(t, ok, "other keys have their own budget")

	fixed = fixed.Add(time.Minute)
	ok, err = limiter.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	require.True(t, ok, "next window starts fresh")
}
