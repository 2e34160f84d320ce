// Package redis provides a Redis backed Medium.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
)

// Medium implements persistence.Medium with plain Redis string keys.
type Medium struct {
	client goredis.UniversalClient
	logger *slog.Logger
}

// NewMedium connects to the Redis server described by a redis:// or rediss:// URL.
func NewMedium(ctx context.Context, logger *slog.Logger, redisURL string) (*Medium, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.InfoContext(ctx, "Connected to redis", "addr", opts.Addr, "db", opts.DB)

	return NewMediumWithClient(logger, client), nil
}

// NewMediumWithClient wraps an existing client.
func NewMediumWithClient(logger *slog.Logger, client goredis.UniversalClient) *Medium {
	return &Medium{client: client, logger: logger}
}

func (m *Medium) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := m.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, true, nil
}

func (m *Medium) Set(ctx context.Context, key, value string) error {
	if err := m.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

func (m *Medium) HealthCheck(ctx context.Context) error {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (m *Medium) Close(_ context.Context) error {
	if err := m.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
