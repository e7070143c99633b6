package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"feteer-storefront/internal/model"

	"github.com/rs/zerolog"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// memorySessionRepository keeps sessions in process memory.
// Sessions are stored encoded so callers never share state with the store.
type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewMemorySessionRepository creates an in-memory session repository.
func NewMemorySessionRepository(ttl time.Duration, logger zerolog.Logger) SessionRepository {
	return newMemorySessionRepository(ttl, time.Now, logger)
}

func newMemorySessionRepository(ttl time.Duration, now func() time.Time, logger zerolog.Logger) *memorySessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      now,
		logger:   logger.With().Str("repository", "session-memory").Logger(),
	}
}

// Get retrieves a session by its ID.
func (r *memorySessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	entry, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if !r.now().Before(entry.expiresAt) {
		r.mu.Lock()
		// Re-check under the write lock: a concurrent Save may have refreshed it.
		if current, ok := r.sessions[id]; ok && !r.now().Before(current.expiresAt) {
			delete(r.sessions, id)
		}
		r.mu.Unlock()

		r.logger.Debug().Str("session_id", id).Msg("session expired")
		return nil, nil
	}

	var session model.Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &session, nil
}

// Save inserts or replaces a session.
func (r *memorySessionRepository) Save(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	r.mu.Lock()
	r.sessions[session.ID] = memoryEntry{data: data, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()

	return nil
}

// Delete removes a session.
func (r *memorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

// Ping always succeeds for the in-memory store.
func (r *memorySessionRepository) Ping(ctx context.Context) error {
	return nil
}

// PurgeExpired drops every expired session and returns how many were removed.
func (r *memorySessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, entry := range r.sessions {
		if !now.Before(entry.expiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}
