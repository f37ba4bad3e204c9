package redis

import (
	"context"
	"time"

	"nexusiq/pkg/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Type for the client.
type RedisClient struct {
	*redis.Client
}

// NewClient creates the client for the given configuration.
func NewClient(cfg config.RedisConfiguration) *RedisClient {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Host + ":" + cfg.Port,
		Password:     cfg.Password,
		DB:           0,
		MaxRetries:   3,
		PoolSize:     100,
		MinIdleConns: 10,
		PoolTimeout:  30 * time.Second,
	})

	return &RedisClient{
		Client: client,
	}
}

// Close the client connection.
func (r *RedisClient) Close() error {
	return r.Client.Close()
}

// Deletes the lock only while it still holds the caller token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TryLock sets the key only if it doesn't exist, expiring after the ttl.
// Returns the token of the holder, acquired is false when someone else holds it.
func (r *RedisClient) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	acquired, err := r.Client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !acquired {
		return "", false, err
	}
	return token, true, nil
}

// Unlock releases a lock taken with TryLock.
// A lock that expired and was taken by someone else is left alone.
func (r *RedisClient) Unlock(ctx context.Context, key string, token string) error {
	return unlockScript.Run(ctx, r.Client, []string{key}, token).Err()
}

// Ping the server.
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}
