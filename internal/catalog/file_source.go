package catalog

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"feteer-storefront/internal/apiclient"
	"feteer-storefront/internal/model"

	"github.com/rs/zerolog"
)

// fileSource implements Source for a product envelope stored on disk.
type fileSource struct {
	path   string
	logger zerolog.Logger
}

// NewFileSource creates a source reading the JSON envelope at path.
// Files ending in .gz are decompressed on the fly.
func NewFileSource(path string, logger zerolog.Logger) Source {
	return &fileSource{
		path:   path,
		logger: logger.With().Str("component", "catalog-file").Logger(),
	}
}

// Products reads the catalogue file.
func (s *fileSource) Products(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("file", s.path).Msg("loading catalogue file")

	file, err := os.Open(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", s.path, err)
	}
	defer file.Close()

	products, err := decode(file, s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to read catalogue file")
		return nil, err
	}

	s.logger.Debug().
		Str("file", s.path).
		Int("products_loaded", len(products)).
		Msg("catalogue file loaded")

	return products, nil
}

// decode reads a product envelope, gunzipping it when name ends in .gz.
func decode(r io.Reader, name string) ([]model.Product, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	products, err := apiclient.DecodeProducts(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue %s: %w", name, err)
	}
	return products, nil
}
