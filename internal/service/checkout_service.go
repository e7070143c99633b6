package service

import (
	"context"
	"fmt"

	"feteer-storefront/internal/cart"
	"feteer-storefront/internal/catalog"
	"feteer-storefront/internal/model"
	"feteer-storefront/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Checkout states, as logged on every transition.
const (
	stateEmpty      = "empty"
	statePopulated  = "populated"
	stateSubmitting = "submitting"
	stateCleared    = "cleared"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	sessions *sessions
	catalog  CatalogService
	client   OrderSubmitter
	forms    *formChecker
	inflight singleflight.Group
	logger   zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	repo repository.SessionRepository,
	catalogService CatalogService,
	client OrderSubmitter,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		sessions: newSessions(repo),
		catalog:  catalogService,
		client:   client,
		forms:    newFormChecker(),
		logger:   logger.With().Str("service", "checkout").Logger(),
	}
}

// Prepare resolves the checkout cart. Navigation items are product IDs,
// repeats allowed; when any of them resolve they are reconciled and replace
// the session cart. Otherwise the session cart is used as is.
func (s *checkoutService) Prepare(ctx context.Context, sessionID string, navItems []int64) (*model.CartView, error) {
	session, err := s.sessions.load(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load session")
		return nil, err
	}

	if len(navItems) > 0 {
		lines, err := s.resolve(ctx, navItems)
		if err != nil {
			return nil, err
		}

		if len(lines) > 0 {
			session.Lines = lines
			if err := s.sessions.save(ctx, session); err != nil {
				s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to store checkout cart")
				return nil, err
			}
		}
	}

	view := viewOf(session.Lines)
	if view.IsEmpty() {
		s.logState(sessionID, stateEmpty, view)
		return nil, model.ErrEmptyCart
	}

	s.logState(sessionID, statePopulated, view)
	return view, nil
}

// resolve maps navigation items onto catalogue products and reconciles them.
// Unknown IDs are skipped.
func (s *checkoutService) resolve(ctx context.Context, navItems []int64) ([]model.CartLine, error) {
	page, err := s.catalog.Browse(ctx, catalog.Query{})
	if err != nil {
		return nil, err
	}

	entries := make([]cart.Entry, 0, len(navItems))
	for _, id := range navItems {
		product, ok := catalog.Find(page.Products, id)
		if !ok {
			s.logger.Warn().Int64("product_id", id).Msg("skipping unknown checkout item")
			continue
		}
		entries = append(entries, cart.Entry{Product: product})
	}

	return cart.Reconcile(entries), nil
}

// Submit validates the form and posts the order. Concurrent submissions for
// the same session share a single POST and its result.
func (s *checkoutService) Submit(ctx context.Context, sessionID string, form *model.CheckoutForm) error {
	if form == nil {
		return fmt.Errorf("checkout form is nil")
	}

	cleaned := s.forms.cleanCheckout(form)
	if err := s.forms.check(cleaned); err != nil {
		s.logger.Debug().Err(err).Str("session_id", sessionID).Msg("checkout form rejected")
		return err
	}

	// Shared by all waiters, so detached from any one caller's cancellation.
	submitCtx := context.WithoutCancel(ctx)

	_, err, shared := s.inflight.Do(sessionID, func() (interface{}, error) {
		return nil, s.submit(submitCtx, sessionID, cleaned)
	})
	if shared {
		s.logger.Debug().Str("session_id", sessionID).Msg("duplicate submission joined in-flight order")
	}

	return err
}

func (s *checkoutService) submit(ctx context.Context, sessionID string, form *model.CheckoutForm) error {
	session, err := s.sessions.load(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load session")
		return err
	}

	c := cart.FromLines(session.Lines)
	view := viewOf(session.Lines)
	if c.IsEmpty() {
		s.logState(sessionID, stateEmpty, view)
		return model.ErrEmptyCart
	}

	order := &model.OrderRequest{
		Name:        form.Name,
		PhoneNumber: form.PhoneNumber,
		Address:     form.Address,
		Notes:       form.Notes,
		Products:    c.OrderItems(),
	}

	s.logState(sessionID, stateSubmitting, view)

	if err := s.client.SubmitOrder(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to submit order")
		s.logState(sessionID, statePopulated, view)
		return err
	}

	if err := s.sessions.clearCart(ctx, sessionID); err != nil {
		// The order is placed; success stands even if the cart stays.
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear cart after order")
	}

	s.logState(sessionID, stateCleared, view)
	s.logger.Info().
		Str("session_id", sessionID).
		Int("item_count", len(order.Products)).
		Str("total", view.Total.String()).
		Msg("order submitted successfully")

	return nil
}

func (s *checkoutService) logState(sessionID, state string, view *model.CartView) {
	s.logger.Debug().
		Str("session_id", sessionID).
		Str("state", state).
		Int("lines", len(view.Lines)).
		Int("units", view.Units).
		Str("total", view.Total.String()).
		Msg("checkout state")
}
