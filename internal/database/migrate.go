package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the DDL of the session store. Every statement is idempotent.
const Schema = `
	CREATE TABLE IF NOT EXISTS storefront_sessions (
		id VARCHAR(64) PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_storefront_sessions_expires_at ON storefront_sessions(expires_at);
`

// Migrate creates the session store schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	log := logger.With().Str("component", "database").Logger()
	log.Info().Msg("applying session store schema")

	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	var tables int
	query := `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = 'storefront_sessions'
	`
	if err := pool.QueryRow(ctx, query).Scan(&tables); err != nil {
		return fmt.Errorf("failed to verify schema: %w", err)
	}

	if tables != 1 {
		return fmt.Errorf("storefront_sessions table missing after migration")
	}

	log.Info().Msg("session store schema ready")
	return nil
}
