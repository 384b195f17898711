package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"facegate.io/application/utils"
	"facegate.io/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

const lockRetryInterval = 25 * time.Millisecond

var ErrLockTimeout = errors.New("timed out waiting for lock")

// releaseScript deletes the key only when it still holds our token so an
// expired holder cannot free a lock that has since been taken over.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker grants exclusive, expiring ownership of a key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

type RedisRepository struct {
	Client *redis.Client
}

// Acquire spins on SET NX until the key is ours or ctx is done.
func (redisRepo *RedisRepository) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := utils.GenerateUULDString()
	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := redisRepo.Client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
			}
			logger.Error("redis error occured while running Acquire", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			}, logger.LoggerOptions{
				Key:  "key",
				Data: key,
			})
			return nil, err
		}
		if ok {
			return func() { redisRepo.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		case <-ticker.C:
		}
	}
}

func (redisRepo *RedisRepository) release(key string, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, redisRepo.Client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		logger.Error("redis error occured while releasing lock", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
	}
}
