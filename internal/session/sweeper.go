package session

// sweeper.go runs expiry for stores that do not expire entries natively.
//
// The sweeper is long-running and context-aware for graceful shutdown. It
// logs failures but keeps running; a failed sweep is retried on the next
// tick.

import (
	"context"
	"log/slog"
	"time"
)

// RunSweeper calls s.Sweep every interval until ctx is cancelled. It always
// returns nil so it can run under an errgroup without stopping its peers.
func RunSweeper(ctx context.Context, s Sweeper, interval time.Duration) error {
	slog.Info("session sweeper started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return nil
		case <-ticker.C:
			sweepOnce(ctx, s)
		}
	}
}

func sweepOnce(ctx context.Context, s Sweeper) {
	start := time.Now()
	removed, err := s.Sweep(ctx)
	if err != nil {
		slog.Error("session sweep failed", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("expired sessions removed",
			"removed", removed,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
