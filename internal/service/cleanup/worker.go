package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionSweeper drops sessions idle for longer than maxIdle.
type SessionSweeper interface {
	CleanupIdleSessions(maxIdle time.Duration) int
}

type Worker struct {
	Sessions SessionSweeper
	MaxIdle  time.Duration
	Interval time.Duration
}

func NewWorker(sessions SessionSweeper, maxIdle time.Duration) *Worker {
	interval := maxIdle / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	if interval > time.Hour {
		interval = time.Hour
	}
	return &Worker{Sessions: sessions, MaxIdle: maxIdle, Interval: interval}
}

// Start runs a sweep now and then every Interval until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.runCleanup()

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.runCleanup()
			}
		}
	}()
	log.Info().Str("component", "cleanup").Dur("interval", w.Interval).Dur("max_idle", w.MaxIdle).Msg("background worker started")
}

func (w *Worker) runCleanup() int {
	removed := w.Sessions.CleanupIdleSessions(w.MaxIdle)
	log.Debug().Str("component", "cleanup").Int("removed", removed).Msg("scheduled cleanup finished")
	return removed
}
