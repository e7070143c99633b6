package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"feteer-storefront/internal/catalog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// seedcatalog checks the seed catalogue, writes a gzipped copy next to it
// and optionally uploads that copy to the bucket read by the s3 source.
func main() {
	src := flag.String("src", "data/catalog/products.json", "seed catalogue to publish")
	bucket := flag.String("bucket", "", "S3 bucket to upload to (optional)")
	region := flag.String("region", "us-east-1", "S3 region")
	key := flag.String("key", "catalog/products.json.gz", "S3 object key")
	flag.Parse()

	ctx := context.Background()

	products, err := catalog.NewFileSource(*src, zerolog.Nop()).Products(ctx)
	if err != nil {
		log.Fatalf("Failed to read seed catalogue: %v", err)
	}
	if len(products) == 0 {
		log.Fatalf("Seed catalogue %s has no products", *src)
	}

	raw, err := os.ReadFile(*src)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *src, err)
	}

	compressed, err := gzipBytes(raw)
	if err != nil {
		log.Fatalf("Failed to compress catalogue: %v", err)
	}

	out := *src + ".gz"
	if err := os.WriteFile(out, compressed, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", out, err)
	}
	fmt.Printf("Created %s with %d products\n", filepath.Clean(out), len(products))

	if *bucket == "" {
		return
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(*region))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	_, err = s3.NewFromConfig(cfg).PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(*bucket),
		Key:         aws.String(*key),
		Body:        bytes.NewReader(compressed),
		ContentType: aws.String("application/gzip"),
	})
	if err != nil {
		log.Fatalf("Failed to upload to s3://%s/%s: %v", *bucket, *key, err)
	}
	fmt.Printf("Uploaded s3://%s/%s\n", *bucket, *key)
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write gzip stream: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip stream: %w", err)
	}
	return buf.Bytes(), nil
}
