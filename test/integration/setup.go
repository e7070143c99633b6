package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"feteer-storefront/internal/apiclient"
	"feteer-storefront/internal/catalog"
	"feteer-storefront/internal/database"
	"feteer-storefront/internal/handler"
	"feteer-storefront/internal/middleware"
	"feteer-storefront/internal/model"
	"feteer-storefront/internal/repository"
	"feteer-storefront/internal/router"
	"feteer-storefront/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	seedCatalogue = "../../data/catalog/products.json"
	cookieName    = "feteer_session"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the session schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Backend is a stand-in for the storefront REST API. It serves the seed
// catalogue and records every order and inquiry it receives.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	orders   []model.OrderRequest
	contacts []model.ContactRequest
	failing  bool
	delay    time.Duration
}

// NewBackend starts the fake API.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	catalogue, err := os.ReadFile(seedCatalogue)
	if err != nil {
		t.Fatalf("failed to read seed catalogue: %v", err)
	}

	b := &Backend{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+apiclient.ProductsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(catalogue)
	})
	mux.HandleFunc("POST "+apiclient.OrdersPath, func(w http.ResponseWriter, r *http.Request) {
		var order model.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if b.respond(w) {
			b.mu.Lock()
			b.orders = append(b.orders, order)
			b.mu.Unlock()
		}
	})
	mux.HandleFunc("POST "+apiclient.ContactsPath, func(w http.ResponseWriter, r *http.Request) {
		var contact model.ContactRequest
		if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if b.respond(w) {
			b.mu.Lock()
			b.contacts = append(b.contacts, contact)
			b.mu.Unlock()
		}
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) respond(w http.ResponseWriter) bool {
	b.mu.Lock()
	failing, delay := b.failing, b.delay
	b.mu.Unlock()

	time.Sleep(delay)
	if failing {
		http.Error(w, "backend unavailable", http.StatusInternalServerError)
		return false
	}
	w.WriteHeader(http.StatusCreated)
	return true
}

// SetFailing makes order and contact posts answer 500.
func (b *Backend) SetFailing(failing bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing = failing
}

// SetDelay slows down order and contact posts.
func (b *Backend) SetDelay(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay = d
}

// Orders returns the orders received so far.
func (b *Backend) Orders() []model.OrderRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.OrderRequest(nil), b.orders...)
}

// Contacts returns the inquiries received so far.
func (b *Backend) Contacts() []model.ContactRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.ContactRequest(nil), b.contacts...)
}

// SetupStorefront wires the full storefront against the given session store
// and backend, reading the catalogue through the API client.
func SetupStorefront(t *testing.T, repo repository.SessionRepository, backend *Backend) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	client := apiclient.New(backend.Server.URL, 5*time.Second, logger)
	source := catalog.NewAPISource(client)

	catalogService := service.NewCatalogService(source, logger)
	carts := service.NewCartService(repo, catalogService, logger)
	checkout := service.NewCheckoutService(repo, catalogService, client, logger)
	inquiry := service.NewInquiryService(client, logger)

	views, err := handler.NewViews()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	return router.New(router.Handlers{
		Store:    handler.NewStoreHandler(catalogService, carts, inquiry, views, logger),
		Cart:     handler.NewCartHandler(carts, views, logger),
		Checkout: handler.NewCheckoutHandler(checkout, carts, views, logger),
	}, router.Options{
		ServiceName: "feteer-storefront-test",
		Session: middleware.SessionConfig{
			CookieName:   cookieName,
			TTL:          time.Hour,
			SkipPrefixes: []string{"/health", "/metrics", "/static/"},
		},
		Metrics: middleware.NewMetrics(prometheus.NewRegistry()),
	}, logger)
}
