package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feteer-storefront/internal/cart"
	"feteer-storefront/internal/model"
	"feteer-storefront/internal/repository"
)

// sessions loads and stores visitor sessions on behalf of the services.
type sessions struct {
	repo repository.SessionRepository
	now  func() time.Time
}

func newSessions(repo repository.SessionRepository) *sessions {
	return &sessions{repo: repo, now: time.Now}
}

// load returns the stored session or a fresh one for the same ID.
func (s *sessions) load(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		session = &model.Session{ID: sessionID}
	}
	return session, nil
}

// save stamps and persists the session.
func (s *sessions) save(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// update loads the session cart, applies fn and saves the result.
func (s *sessions) update(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) (*model.Session, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c := cart.FromLines(session.Lines)
	if err := fn(c); err != nil {
		return nil, err
	}
	session.Lines = c.Lines()

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// clearCart empties the stored cart. The session is reloaded first so
// notices written since the caller loaded it are kept. When it cannot be
// saved the session is dropped instead.
func (s *sessions) clearCart(ctx context.Context, sessionID string) error {
	session, err := s.load(ctx, sessionID)
	if err == nil {
		session.Lines = nil
		if err = s.save(ctx, session); err == nil {
			return nil
		}
	}

	if delErr := s.repo.Delete(ctx, sessionID); delErr != nil {
		return errors.Join(err, fmt.Errorf("failed to drop session: %w", delErr))
	}
	return nil
}

func viewOf(lines []model.CartLine) *model.CartView {
	c := cart.FromLines(lines)
	return &model.CartView{
		Lines: c.Lines(),
		Units: c.Len(),
		Total: c.Total(),
	}
}
