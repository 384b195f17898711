//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	cacheconn "facegate.io/infrastructure/database/connection/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisContainer(t *testing.T) (*redis.Client, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil || container == nil {
		t.Skipf("docker not available, skipping integration test: %v", err)
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := cacheconn.ConnectRedis(ctx, fmt.Sprintf("%s:%s", host, port.Port()), "")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to redis: %v", err)
	}

	return client, func() {
		_ = client.Close()
		_ = container.Terminate(ctx)
	}
}

func TestRedisLocker(t *testing.T) {
	client, cleanup := setupRedisContainer(t)
	if client == nil {
		return
	}
	defer cleanup()

	locker := &RedisRepository{Client: client}
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "lock:a", 5*time.Second)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	_, err = locker.Acquire(waitCtx, "lock:a", 5*time.Second)
	cancel()
	assert.ErrorIs(t, err, ErrLockTimeout)

	release()
	again, err := locker.Acquire(ctx, "lock:a", 5*time.Second)
	require.NoError(t, err)
	again()
}

func TestRedisLockerExpiredHolderCannotReleaseNewOwner(t *testing.T) {
	client, cleanup := setupRedisContainer(t)
	if client == nil {
		return
	}
	defer cleanup()

	locker := &RedisRepository{Client: client}
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "lock:b", 50*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(150 * time.Millisecond)

	owner, err := locker.Acquire(ctx, "lock:b", 5*time.Second)
	require.NoError(t, err)

	stale()
	exists, err := client.Exists(ctx, "lock:b").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	owner()
	exists, err = client.Exists(ctx, "lock:b").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
