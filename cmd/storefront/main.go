package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feteer-storefront/internal/apiclient"
	"feteer-storefront/internal/config"
	"feteer-storefront/internal/handler"
	"feteer-storefront/internal/healthcheck"
	"feteer-storefront/internal/middleware"
	"feteer-storefront/internal/router"
	"feteer-storefront/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("version", version).Msg("starting feteer storefront")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session store
	sessions, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sessions.Close()

	// Backend client and catalogue source
	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, logger)
	source, err := openCatalogSource(ctx, cfg, client, logger)
	if err != nil {
		return err
	}

	// Initialize services
	catalogService := service.NewCatalogService(source, logger)
	cartService := service.NewCartService(sessions.repo, catalogService, logger)
	checkoutService := service.NewCheckoutService(sessions.repo, catalogService, client, logger)
	inquiryService := service.NewInquiryService(client, logger)

	// Initialize HTTP handlers
	views, err := handler.NewViews()
	if err != nil {
		return fmt.Errorf("failed to load page templates: %w", err)
	}
	handlers := router.Handlers{
		Store:    handler.NewStoreHandler(catalogService, cartService, inquiryService, views, logger),
		Cart:     handler.NewCartHandler(cartService, views, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, cartService, views, logger),
	}

	// Operational endpoints
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	healthOpts := healthcheck.Options{
		Name:     config.ServiceName,
		Version:  version,
		Sessions: sessions.repo,
	}
	if cfg.Session.Store == config.SessionStoreRedis {
		healthOpts.RedisURL = cfg.Redis.URL
	}
	health, err := healthcheck.New(healthOpts)
	if err != nil {
		return err
	}

	// Initialize router
	mux := router.New(handlers, router.Options{
		ServiceName: config.ServiceName,
		Session: middleware.SessionConfig{
			CookieName:   cfg.Session.CookieName,
			TTL:          cfg.Session.TTL,
			Secure:       cfg.Session.Secure,
			SkipPrefixes: []string{"/health", "/metrics", "/static/"},
		},
		Metrics:      middleware.NewMetrics(registry),
		MetricsToken: cfg.Server.MetricsToken,
		Health:       health.Handler(),
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("session_store", cfg.Session.Store).
			Str("catalog_source", cfg.Catalog.Source).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
