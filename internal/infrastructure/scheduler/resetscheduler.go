// Package scheduler hosts the periodic background jobs.
package scheduler

import (
	"context"
	"sync"
	"time"

	subscriptionUsecases "readora/internal/application/subscription/usecases"
	"readora/internal/shared/logger"
)

// ResetScheduler drives the monthly quota reset sweep. The sweep itself is
// guarded by per-row due dates, so the interval only bounds how late a reset
// can land, never how often one can apply.
type ResetScheduler struct {
	resetUC  *subscriptionUsecases.ResetDueSubscriptionsUseCase
	logger   logger.Interface
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	interval time.Duration
}

func NewResetScheduler(
	resetUC *subscriptionUsecases.ResetDueSubscriptionsUseCase,
	interval time.Duration,
	logger logger.Interface,
) *ResetScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ResetScheduler{
		resetUC:  resetUC,
		logger:   logger,
		stopChan: make(chan struct{}),
		interval: interval,
	}
}

// Start launches the sweep loop.
func (s *ResetScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting quota reset scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully.
func (s *ResetScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping quota reset scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("quota reset scheduler stopped")
	})
}

func (s *ResetScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to catch resets missed while down.
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("quota reset scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ResetScheduler) sweep(ctx context.Context) {
	startTime := time.Now()

	resetCount, err := s.resetUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("quota reset sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if resetCount > 0 {
		s.logger.Infow("quota reset sweep finished",
			"reset_count", resetCount,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no subscriptions due for reset",
			"duration", time.Since(startTime),
		)
	}
}
