package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option adjusts the parsed client options.
type Option func(*redis.Options)

// WithTimeout bounds dialing, reads, and writes.
func WithTimeout(d time.Duration) Option {
	return func(o *redis.Options) {
		if d <= 0 {
			return
		}
		o.DialTimeout = d
		o.ReadTimeout = d
		o.WriteTimeout = d
	}
}

// WithPoolSize sets the maximum number of socket connections.
func WithPoolSize(n int) Option {
	return func(o *redis.Options) {
		if n > 0 {
			o.PoolSize = n
		}
	}
}

// NewClient parses redisURL, applies opts, and pings the server.
func NewClient(ctx context.Context, redisURL string, opts ...Option) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	for _, opt := range opts {
		opt(options)
	}

	client := redis.NewClient(options)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
