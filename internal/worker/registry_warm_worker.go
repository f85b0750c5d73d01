package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zivgin/canonical-product-builder/internal/service"
)

// RegistryWarmWorker periodically refreshes the cached chain registry
// snapshot so session creation rarely reads the registry store directly.
type RegistryWarmWorker struct {
	registry *service.RegistryService
	interval time.Duration
}

// NewRegistryWarmWorker constructs a RegistryWarmWorker.
func NewRegistryWarmWorker(registry *service.RegistryService, interval time.Duration) *RegistryWarmWorker {
	return &RegistryWarmWorker{
		registry: registry,
		interval: interval,
	}
}

// Start begins the periodic refresh loop and listens for context cancellation.
func (w *RegistryWarmWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting registry warm worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Registry warm worker stopped")
			return
		}
	}
}

func (w *RegistryWarmWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.registry.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to refresh registry snapshot")
		return
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("Registry snapshot refreshed")
}
