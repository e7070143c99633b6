package service

import (
	"context"
	"errors"

	"feteer-storefront/internal/cart"
	"feteer-storefront/internal/model"
	"feteer-storefront/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService on top of the session store.
type cartService struct {
	sessions *sessions
	catalog  CatalogService
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.SessionRepository, catalog CatalogService, logger zerolog.Logger) CartService {
	return &cartService{
		sessions: newSessions(repo),
		catalog:  catalog,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Get returns the current cart of the session.
func (s *cartService) Get(ctx context.Context, sessionID string) (*model.CartView, error) {
	session, err := s.sessions.load(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return nil, err
	}
	return viewOf(session.Lines), nil
}

// Add resolves the product against the catalogue and adds one unit of it.
func (s *cartService) Add(ctx context.Context, sessionID string, productID int64) (*model.Product, error) {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.update(ctx, sessionID, func(c *cart.Cart) error {
		c.Add(*product)
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Int64("product_id", productID).Msg("failed to add to cart")
		return nil, err
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Int64("product_id", productID).
		Int("lines", len(session.Lines)).
		Msg("product added to cart")

	return product, nil
}

// Remove takes one unit of the product out of the cart.
func (s *cartService) Remove(ctx context.Context, sessionID string, productID int64) error {
	return s.edit(ctx, sessionID, productID, "product removed from cart", func(c *cart.Cart) bool {
		return c.Remove(productID)
	})
}

// Delete drops the product's line entirely.
func (s *cartService) Delete(ctx context.Context, sessionID string, productID int64) error {
	return s.edit(ctx, sessionID, productID, "cart line deleted", func(c *cart.Cart) bool {
		return c.Delete(productID)
	})
}

// SetQuantity overwrites a line quantity, clamped to at least one.
func (s *cartService) SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error {
	return s.edit(ctx, sessionID, productID, "cart quantity updated", func(c *cart.Cart) bool {
		return c.SetQuantity(productID, quantity)
	})
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	_, err := s.sessions.update(ctx, sessionID, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear cart")
		return err
	}
	return nil
}

// Notify queues a notice for the next rendered page.
func (s *cartService) Notify(ctx context.Context, sessionID string, notice model.Notice) error {
	session, err := s.sessions.load(ctx, sessionID)
	if err != nil {
		return err
	}
	session.Notices = append(session.Notices, notice)
	return s.sessions.save(ctx, session)
}

// TakeNotices returns and forgets the queued notices.
func (s *cartService) TakeNotices(ctx context.Context, sessionID string) ([]model.Notice, error) {
	session, err := s.sessions.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.Notices) == 0 {
		return nil, nil
	}

	notices := session.Notices
	session.Notices = nil
	if err := s.sessions.save(ctx, session); err != nil {
		return nil, err
	}
	return notices, nil
}

// edit applies a line operation, reporting ErrLineNotFound when the product
// has no line in the cart.
func (s *cartService) edit(ctx context.Context, sessionID string, productID int64, msg string, op func(c *cart.Cart) bool) error {
	_, err := s.sessions.update(ctx, sessionID, func(c *cart.Cart) error {
		if !op(c) {
			return model.ErrLineNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrLineNotFound) {
			s.logger.Debug().Str("session_id", sessionID).Int64("product_id", productID).Msg("product not in cart")
		} else {
			s.logger.Error().Err(err).Str("session_id", sessionID).Int64("product_id", productID).Msg("failed to update cart")
		}
		return err
	}

	s.logger.Debug().Str("session_id", sessionID).Int64("product_id", productID).Msg(msg)
	return nil
}
