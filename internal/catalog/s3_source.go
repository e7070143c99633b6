package catalog

import (
	"context"
	"fmt"

	"feteer-storefront/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ObjectGetter is the subset of the S3 client used by the S3 source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Source implements Source for a product envelope stored in AWS S3.
type s3Source struct {
	client ObjectGetter
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Source creates an S3-backed catalogue source using the default AWS
// credential chain.
func NewS3Source(ctx context.Context, bucket, region, key string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "catalog-s3").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("key", key).
		Msg("S3 catalogue source initialised")

	return NewS3SourceWithClient(s3.NewFromConfig(cfg), bucket, key, logger), nil
}

// NewS3SourceWithClient creates an S3 source around an existing client.
func NewS3SourceWithClient(client ObjectGetter, bucket, key string, logger zerolog.Logger) Source {
	return &s3Source{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}
}

// Products downloads and decodes the catalogue object.
func (s *s3Source) Products(ctx context.Context) ([]model.Product, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to get catalogue object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, s.key, err)
	}
	defer result.Body.Close()

	products, err := decode(result.Body, s.key)
	if err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("failed to read catalogue object")
		return nil, err
	}

	s.logger.Debug().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Int("products_loaded", len(products)).
		Msg("catalogue loaded from S3")

	return products, nil
}
