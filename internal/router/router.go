package router

import (
	"net/http"

	"feteer-storefront/internal/handler"
	"feteer-storefront/internal/middleware"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handlers groups the page handlers served by the router.
type Handlers struct {
	Store    *handler.StoreHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
}

// Options configures the operational side of the router.
type Options struct {
	ServiceName  string
	Session      middleware.SessionConfig
	Metrics      *middleware.Metrics
	MetricsToken string
	Health       http.Handler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Operational endpoints
	if opts.Health != nil {
		mux.Handle("GET /health", opts.Health)
	}
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", middleware.TokenAuth(opts.MetricsToken, logger)(opts.Metrics.Handler()))
	}
	mux.Handle("GET /static/", handler.Static())

	// Pages
	mux.HandleFunc("GET /{$}", h.Store.Landing)
	mux.HandleFunc("GET /products", h.Store.Products)
	mux.HandleFunc("POST /contact", h.Store.Contact)

	// Cart
	mux.HandleFunc("POST /cart/items", h.Cart.Add)
	mux.HandleFunc("POST /cart/items/{id}/remove", h.Cart.Remove)
	mux.HandleFunc("GET /cart.json", h.Cart.Snapshot)

	// Checkout
	mux.HandleFunc("GET /checkout", h.Checkout.Show)
	mux.HandleFunc("POST /checkout", h.Checkout.Submit)
	mux.HandleFunc("POST /checkout/lines/{id}", h.Checkout.SetQuantity)
	mux.HandleFunc("POST /checkout/lines/{id}/delete", h.Checkout.DeleteLine)

	// Everything else
	mux.HandleFunc("/", h.Store.NotFound)

	// Apply middleware in order: Tracing -> Recovery -> RequestID -> Logging -> Session -> Metrics
	var root http.Handler = mux
	if opts.Metrics != nil {
		root = opts.Metrics.Middleware(root)
	}
	root = middleware.Session(opts.Session, logger)(root)
	root = middleware.Logging(logger)(root)
	root = middleware.RequestID(root)
	root = middleware.Recovery(logger)(root)

	return otelhttp.NewHandler(root, opts.ServiceName,
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return "HTTP " + r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health" && r.URL.Path != "/metrics"
		}),
	)
}
