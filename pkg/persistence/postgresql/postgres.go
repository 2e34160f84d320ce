// Package postgresql provides a PostgreSQL backed Medium.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/orpheusflows/pkg/persistence/sqlbase"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// Medium implements persistence.Medium on a single key/value table.
type Medium struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewMedium connects to PostgreSQL and runs pending migrations.
func NewMedium(ctx context.Context, logger *slog.Logger, databaseURL string) (*Medium, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Medium{
		db:     database,
		logger: logger,
	}, nil
}

// Get reads the value stored under key.
func (m *Medium) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := m.db.QueryRowContext(ctx, `SELECT value FROM editor_state WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, true, nil
}

// Set upserts the value stored under key.
func (m *Medium) Set(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO editor_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (m *Medium) HealthCheck(ctx context.Context) error {
	err := m.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (m *Medium) Close(_ context.Context) error {
	if m.db != nil {
		err := m.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
