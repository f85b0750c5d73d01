package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zivgin/canonical-product-builder/internal/service"
)

// SessionReapWorker discards workflow sessions that have been idle for
// longer than the configured TTL. Discarding has no effect on storage;
// unsaved assignment state is simply dropped.
type SessionReapWorker struct {
	sessions *service.SessionManager
	ttl      time.Duration
	interval time.Duration
}

// NewSessionReapWorker constructs a SessionReapWorker.
func NewSessionReapWorker(sessions *service.SessionManager, ttl, interval time.Duration) *SessionReapWorker {
	return &SessionReapWorker{
		sessions: sessions,
		ttl:      ttl,
		interval: interval,
	}
}

// Start begins the periodic reap loop and listens for context cancellation.
func (w *SessionReapWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Dur("ttl", w.ttl).Msg("Starting session reap worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if reaped := w.sessions.ReapExpired(w.ttl); reaped > 0 {
				log.Info().Int("reaped", reaped).Msg("Expired sessions discarded")
			}
		case <-ctx.Done():
			log.Info().Msg("Session reap worker stopped")
			return
		}
	}
}
