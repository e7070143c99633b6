package catalog

import (
	"context"

	"feteer-storefront/internal/model"

	"github.com/rs/zerolog"
)

// fallbackSource tries the primary source and falls back to the secondary
// one when the primary fails.
type fallbackSource struct {
	primary   Source
	secondary Source
	logger    zerolog.Logger
}

// NewFallbackSource creates a source that prefers primary. A nil primary
// means the secondary is used directly.
func NewFallbackSource(primary, secondary Source, logger zerolog.Logger) Source {
	return &fallbackSource{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "catalog-fallback").Logger(),
	}
}

// Products returns the primary catalogue, or the secondary one on error.
func (s *fallbackSource) Products(ctx context.Context) ([]model.Product, error) {
	if s.primary != nil {
		products, err := s.primary.Products(ctx)
		if err == nil {
			return products, nil
		}

		s.logger.Warn().
			Err(err).
			Msg("primary catalogue source failed, falling back")
	}

	return s.secondary.Products(ctx)
}
