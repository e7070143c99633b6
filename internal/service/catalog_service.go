package service

import (
	"context"
	"fmt"

	"feteer-storefront/internal/catalog"
	"feteer-storefront/internal/model"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	source catalog.Source
	logger zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(source catalog.Source, logger zerolog.Logger) CatalogService {
	return &catalogService{
		source: source,
		logger: logger.With().Str("service", "catalog").Logger(),
	}
}

// Browse loads the full catalogue and derives the filtered view and the
// category options from it. The catalogue is fetched on every call.
func (s *catalogService) Browse(ctx context.Context, query catalog.Query) (*model.CatalogPage, error) {
	products, err := s.source.Products(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load catalogue")
		return nil, fmt.Errorf("failed to load catalogue: %w", err)
	}

	query = query.Normalize()
	filtered := catalog.Apply(products, query)

	s.logger.Debug().
		Str("search", query.Search).
		Str("category", query.Category).
		Str("sort", query.Sort).
		Int("catalog_size", len(products)).
		Int("result_count", len(filtered)).
		Msg("catalogue browsed")

	return &model.CatalogPage{
		Search:      query.Search,
		Category:    query.Category,
		Sort:        query.Sort,
		Products:    filtered,
		Categories:  catalog.Categories(products),
		CatalogSize: len(products),
	}, nil
}

// Product looks up a single product by ID.
func (s *catalogService) Product(ctx context.Context, id int64) (*model.Product, error) {
	products, err := s.source.Products(ctx)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to load catalogue")
		return nil, fmt.Errorf("failed to load catalogue: %w", err)
	}

	product, ok := catalog.Find(products, id)
	if !ok {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return &product, nil
}
