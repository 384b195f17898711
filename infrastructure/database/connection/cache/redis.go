package cache

import (
	"context"
	"fmt"
	"time"

	"facegate.io/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis creates a client and verifies the server answers PING.
func ConnectRedis(ctx context.Context, addr string, password string) (*redis.Client, error) {
	opt := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		PoolSize: 10,
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not reach redis at %s: %w", addr, err)
	}

	logger.Info("connected to redis successfully")
	return client, nil
}
