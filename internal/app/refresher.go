package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/shopfront/internal/state"
)

const maxBackoff = 5 * time.Minute

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// StartRefresher refetches the product list every interval until ctx is
// cancelled. Failures back off exponentially. The first tick waits one
// interval because the UI triggers the initial load itself.
func StartRefresher(ctx context.Context, store *state.Store, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "refresher")

	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			res := store.FetchAll(ctx)
			if res.OK() {
				failures = 0
			} else if ctx.Err() == nil {
				failures++
				logger.Warn("background refresh failed", "error", res.Err, "failures", failures)
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}
