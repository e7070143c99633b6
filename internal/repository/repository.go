package repository

import (
	"context"

	"feteer-storefront/internal/model"
)

// SessionRepository defines the interface for visitor session storage.
type SessionRepository interface {
	// Get retrieves a session by its ID.
	// Returns nil and no error when the session is unknown or expired.
	Get(ctx context.Context, id string) (*model.Session, error)

	// Save inserts or replaces a session and refreshes its expiry.
	Save(ctx context.Context, session *model.Session) error

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// ExpiredSessionPurger is implemented by stores that do not expire sessions
// on their own and need a periodic sweep.
type ExpiredSessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
