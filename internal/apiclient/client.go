// Package apiclient talks to the bakery backend REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"feteer-storefront/internal/model"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Backend endpoints.
const (
	ProductsPath = "/products"
	OrdersPath   = "/orders"
	ContactsPath = "/contacts"
)

// Client is a thin JSON client for the backend. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a backend client. A zero timeout leaves requests bounded only
// by the caller's context.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		logger: logger.With().Str("component", "api-client").Logger(),
	}
}

// NewWithHTTPClient creates a backend client around an existing http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With().Str("component", "api-client").Logger(),
	}
}

// FetchProducts retrieves the catalogue from GET /products.
// An envelope without a products field yields an empty list, not an error.
func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ProductsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build products request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", ProductsPath).Msg("products request failed")
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, ProductsPath); err != nil {
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("endpoint", ProductsPath).
			Msg("products request rejected")
		return nil, err
	}

	products, err := DecodeProducts(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to decode products")
		return nil, err
	}

	c.logger.Debug().Int("count", len(products)).Msg("fetched products")

	return products, nil
}

// SubmitOrder posts an order to POST /orders.
func (c *Client) SubmitOrder(ctx context.Context, order *model.OrderRequest) error {
	return c.postJSON(ctx, OrdersPath, order)
}

// SubmitContact posts an inquiry to POST /contacts.
func (c *Client) SubmitContact(ctx context.Context, contact *model.ContactRequest) error {
	return c.postJSON(ctx, ContactsPath, contact)
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", path).Msg("request failed")
		return fmt.Errorf("failed to post %s: %w", path, err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused; the body carries nothing we use.
	_, _ = io.Copy(io.Discard, resp.Body)

	if err := checkStatus(resp, path); err != nil {
		c.logger.Warn().Int("status", resp.StatusCode).Str("endpoint", path).Msg("request rejected")
		return err
	}

	c.logger.Info().Str("endpoint", path).Int("status", resp.StatusCode).Msg("request accepted")

	return nil
}

// DecodeProducts reads a products envelope. Any well-formed JSON body whose
// products field is missing or null decodes to an empty list; only a body
// that is not JSON at all is an error.
func DecodeProducts(r io.Reader) ([]model.Product, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return []model.Product{}, nil
	}

	var envelope model.ProductsEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	if envelope.Products == nil {
		return []model.Product{}, nil
	}
	return envelope.Products, nil
}

func checkStatus(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	status := http.StatusText(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode))); text != "" {
		status = text
	}

	return &model.UpstreamError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Status:     status,
	}
}
