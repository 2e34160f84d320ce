// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/orpheusflows/pkg/persistence"
	"github.com/dukex/orpheusflows/pkg/persistence/file"
	"github.com/dukex/orpheusflows/pkg/persistence/memory"
	"github.com/dukex/orpheusflows/pkg/persistence/postgresql"
	"github.com/dukex/orpheusflows/pkg/persistence/redis"
)

var supportedPersistenceProviders = []string{"file", "memory", "postgres", "postgresql", "redis", "rediss"}

// NewPersistence opens the medium the database URL points to. URLs without a
// known scheme are treated as file paths.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Medium, error) {
	provider := parsePersistenceProvider(databaseURL)

	logger.InfoContext(ctx, "Opening persistence", "provider", provider)

	switch provider {
	case "memory":
		return memory.NewMedium(), nil
	case "postgres", "postgresql":
		medium, err := postgresql.NewMedium(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres persistence: %w", err)
		}

		return medium, nil
	case "redis", "rediss":
		medium, err := redis.NewMedium(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis persistence: %w", err)
		}

		return medium, nil
	default:
		return file.NewMedium(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
