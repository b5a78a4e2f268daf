package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}

// DefaultAuthKey holds the operator's signed-in flag.
const DefaultAuthKey = "attendance:authenticated"

// AuthFlag persists the signed-in flag in Redis. The key exists only while signed in.
type AuthFlag struct {
	client *redis.Client
	key    string
}

// NewAuthFlag stores the flag under key, or DefaultAuthKey when key is empty.
func NewAuthFlag(client *redis.Client, key string) *AuthFlag {
	if key == "" {
		key = DefaultAuthKey
	}
	return &AuthFlag{client: client, key: key}
}

// IsAuthenticated reports whether the key holds "true".
func (f *AuthFlag) IsAuthenticated(ctx context.Context) (bool, error) {
	v, err := f.client.Get(ctx, f.key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetAuthenticated writes the flag; clearing it deletes the key.
func (f *AuthFlag) SetAuthenticated(ctx context.Context, v bool) error {
	if !v {
		return f.client.Del(ctx, f.key).Err()
	}
	return f.client.Set(ctx, f.key, "true", 0).Err()
}
