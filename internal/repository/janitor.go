package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Janitor periodically removes expired sessions from a store.
type Janitor struct {
	purger   ExpiredSessionPurger
	interval time.Duration
	logger   zerolog.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewJanitor creates a janitor sweeping purger every interval.
func NewJanitor(purger ExpiredSessionPurger, interval time.Duration, logger zerolog.Logger) *Janitor {
	return &Janitor{
		purger:   purger,
		interval: interval,
		logger:   logger.With().Str("component", "session-janitor").Logger(),
		stopChan: make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (j *Janitor) Start() {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.Sweep()
			case <-j.stopChan:
				return
			}
		}
	}()
}

// Sweep runs a single purge.
func (j *Janitor) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	removed, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to purge expired sessions")
		return
	}

	if removed > 0 {
		j.logger.Debug().Int64("removed", removed).Msg("expired sessions purged")
	}
}

// Close stops the sweep loop and waits for it to exit.
func (j *Janitor) Close() error {
	j.once.Do(func() {
		close(j.stopChan)
	})
	j.wg.Wait()
	return nil
}
