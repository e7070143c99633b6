package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"feteer-storefront/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const sessionKeyPrefix = "storefront:session:"

// redisSessionRepository implements SessionRepository on top of redis.
// Expiry is delegated to redis key TTLs.
type redisSessionRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisClient parses a redis URL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisSessionRepository creates a redis-backed session repository.
func NewRedisSessionRepository(client redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) SessionRepository {
	return &redisSessionRepository{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "session-redis").Logger(),
	}
}

// Get retrieves a session by its ID.
func (r *redisSessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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

// Save stores a session and refreshes its TTL.
func (r *redisSessionRepository) Save(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), data, r.ttl).Err(); err != nil {
		r.logger.Error().Err(err).Str("session_id", session.ID).Msg("failed to save session")
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete removes a session.
func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		r.logger.Error().Err(err).Str("session_id", id).Msg("failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping verifies redis connectivity.
func (r *redisSessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
