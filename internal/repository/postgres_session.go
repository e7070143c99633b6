package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"feteer-storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresSessionRepository implements SessionRepository using PostgreSQL.
type postgresSessionRepository struct {
	pool   *pgxpool.Pool
	ttl    time.Duration
	logger zerolog.Logger
}

// NewPostgresSessionRepository creates a new PostgreSQL-backed session repository.
// The storefront_sessions table must exist; see database.Migrate.
func NewPostgresSessionRepository(pool *pgxpool.Pool, ttl time.Duration, logger zerolog.Logger) SessionRepository {
	return &postgresSessionRepository{
		pool:   pool,
		ttl:    ttl,
		logger: logger.With().Str("repository", "session-postgres").Logger(),
	}
}

// Get retrieves a live session by its ID.
func (r *postgresSessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	query := `
		SELECT data
		FROM storefront_sessions
		WHERE id = $1 AND expires_at > NOW()
	`

	var data []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to get session")
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to decode session")
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}

// Save upserts a session and pushes its expiry forward.
func (r *postgresSessionRepository) Save(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	query := `
		INSERT INTO storefront_sessions (id, data, updated_at, expires_at)
		VALUES ($1, $2, NOW(), NOW() + make_interval(secs => $3))
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data,
		    updated_at = EXCLUDED.updated_at,
		    expires_at = EXCLUDED.expires_at
	`

	if _, err := r.pool.Exec(ctx, query, session.ID, data, r.ttl.Seconds()); err != nil {
		r.logger.Error().Err(err).Str("session_id", session.ID).Msg("failed to save session")
		return fmt.Errorf("failed to save session: %w", err)
	}

	r.logger.Debug().
		Str("session_id", session.ID).
		Int("lines", len(session.Lines)).
		Msg("session saved")

	return nil
}

// Delete removes a session.
func (r *postgresSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM storefront_sessions WHERE id = $1`, id); err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (r *postgresSessionRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// PurgeExpired deletes every expired session row.
func (r *postgresSessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM storefront_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
