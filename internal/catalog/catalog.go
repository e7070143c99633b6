// Package catalog provides the product sources of the storefront and the
// filter/sort pipeline applied to the catalogue.
package catalog

import (
	"context"

	"feteer-storefront/internal/model"
)

// Source defines where the catalogue comes from.
type Source interface {
	// Products returns the full, ordered catalogue.
	// A source whose payload lacks the products field returns an empty list.
	Products(ctx context.Context) ([]model.Product, error)
}

// ProductFetcher is the subset of the backend client used by the API source.
type ProductFetcher interface {
	FetchProducts(ctx context.Context) ([]model.Product, error)
}

// apiSource reads the catalogue from the backend on every call.
type apiSource struct {
	client ProductFetcher
}

// NewAPISource creates a source backed by GET /products.
func NewAPISource(client ProductFetcher) Source {
	return &apiSource{client: client}
}

// Products fetches the catalogue from the backend. Errors are not retried.
func (s *apiSource) Products(ctx context.Context) ([]model.Product, error) {
	return s.client.FetchProducts(ctx)
}
