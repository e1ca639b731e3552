package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the shared redis client. A nil *Redis disables caching and rate
// limiting without any caller-side branching beyond a nil check.
type Redis struct {
	client *redis.Client
}

// New connects to redis and verifies the connection.
func New(ctx context.Context, addr, password string, db int, useTLS bool) (*Redis, error) {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	if useTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{client: client}, nil
}

// Client returns the underlying redis client.
func (r *Redis) Client() *redis.Client {
	return r.client
}

// Close releases the connection.
func (r *Redis) Close() {
	if r == nil {
		return
	}
	_ = r.client.Close()
}
