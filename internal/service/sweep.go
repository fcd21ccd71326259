package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sheda3838/tuteskillz-backend/internal/models"
	"github.com/sheda3838/tuteskillz-backend/internal/observability"
	"github.com/sheda3838/tuteskillz-backend/internal/repository"
)

// CompletionSweeper promotes Paid sessions whose end time has passed into
// the terminal Completed status. It runs once at startup and then on a fixed
// interval. Each session is handled independently so one bad row never
// blocks the rest of the pass.
type CompletionSweeper struct {
	sessions repository.SessionRepository
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time
	stop     chan struct{}
}

// NewCompletionSweeper builds the background sweeper.
func NewCompletionSweeper(sessions repository.SessionRepository, interval time.Duration, logger zerolog.Logger) *CompletionSweeper {
	if interval <= 0 {
		interval = time.Minute
	}

	return &CompletionSweeper{
		sessions: sessions,
		interval: interval,
		logger:   logger.With().Str("component", "completion_sweeper").Logger(),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Start launches the sweep loop. The first pass runs immediately.
func (s *CompletionSweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop terminates the sweep loop.
func (s *CompletionSweeper) Stop() {
	close(s.stop)
}

func (s *CompletionSweeper) run(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-s.stop:
			s.logger.Info().Msg("completion sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info().Msg("completion sweeper cancelled")
			return
		}
	}
}

// RunOnce executes a single sweep pass.
func (s *CompletionSweeper) RunOnce(ctx context.Context) {
	sessions, err := s.sessions.ListByStatus(ctx, models.SessionPaid)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch paid sessions")
		return
	}

	now := s.now()
	for _, session := range sessions {
		endTime, err := session.EndTime()
		if err != nil {
			observability.SweepFailures().Inc()
			s.logger.Error().Err(err).Uint("session_id", session.ID).Msg("failed to compute session end time")
			continue
		}

		if !now.After(endTime) {
			continue
		}

		// Guarded on the current status so a concurrent cancellation is
		// never clobbered.
		updated, err := s.sessions.UpdateStatusGuarded(ctx, session.ID, models.SessionPaid, models.SessionCompleted)
		if err != nil {
			observability.SweepFailures().Inc()
			s.logger.Error().Err(err).Uint("session_id", session.ID).Msg("failed to mark session completed")
			continue
		}
		if updated {
			observability.SessionsCompleted().Inc()
			s.logger.Info().Uint("session_id", session.ID).Msg("session marked completed")
		}
	}
}
