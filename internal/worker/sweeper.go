// Package worker runs background maintenance loops.
package worker

import (
	"context"
	"log/slog"
	"time"

	authUsecase "github.com/meditrack/trustcore/internal/auth/usecase"
)

// Sweeper periodically deletes sessions past their absolute expiry so
// abandoned sessions do not accumulate between validations.
type Sweeper struct {
	sessionUseCase authUsecase.SessionUseCase
	interval       time.Duration
	logger         *slog.Logger
}

// NewSweeper creates a session sweeper running at the given interval.
func NewSweeper(
	sessionUseCase authUsecase.SessionUseCase,
	interval time.Duration,
	logger *slog.Logger,
) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		sessionUseCase: sessionUseCase,
		interval:       interval,
		logger:         logger,
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled. A failed sweep is logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("starting session sweeper", slog.Duration("interval", s.interval))

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping session sweeper")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.sessionUseCase.SweepExpired(ctx, false); err != nil {
		s.logger.Error("failed to sweep expired sessions", slog.Any("error", err))
	}
}
