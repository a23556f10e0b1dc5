package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/certpath/certpath-backend/internal/service"
)

const expirySweepInterval = 30 * time.Second

// ExpiryWorker periodically force-submits started attempts whose countdown
// ran out. It covers candidates whose client vanished without submitting:
// the remaining time persisted on their last save plus the grace window
// decides when the attempt is finalized as timed out.
type ExpiryWorker struct {
	attemptService *service.AttemptService
	grace          time.Duration
	log            zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(attemptService *service.AttemptService, grace time.Duration, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		attemptService: attemptService,
		grace:          grace,
		log:            log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Dur("grace", w.grace).Msg("Worker started")

	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	submitted, err := w.attemptService.ForceSubmitExpired(ctx, w.grace)
	if err != nil {
		w.log.Error().Err(err).Msg("Sweep failed")
		return
	}
	if submitted > 0 {
		w.log.Info().Int("count", submitted).Msg("Expired attempts submitted")
	}
}
