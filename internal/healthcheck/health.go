package healthcheck

import (
	"context"
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

// Pinger is implemented by every session store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options describes what the health endpoint checks.
type Options struct {
	Name    string
	Version string
	// Sessions is checked on every probe; a failing store fails the probe.
	Sessions Pinger
	// RedisURL adds a dedicated redis check when the store is redis.
	RedisURL string
}

// New builds the /health handler.
func New(opts Options) (*health.Health, error) {
	checks := []health.Config{
		{
			Name:      "session-store",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: func(ctx context.Context) error {
				if opts.Sessions == nil {
					return fmt.Errorf("session store is not initialized")
				}
				if err := opts.Sessions.Ping(ctx); err != nil {
					return fmt.Errorf("failed to reach session store: %w", err)
				}
				return nil
			},
		},
	}

	if opts.RedisURL != "" {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check:     healthRedis.New(healthRedis.Config{DSN: opts.RedisURL}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    opts.Name,
			Version: opts.Version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
