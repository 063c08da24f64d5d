package outbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	dispatcher *Dispatcher
	interval   time.Duration
	logger     *zap.Logger
	wg         sync.WaitGroup
}

func NewScheduler(d *Dispatcher, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		dispatcher: d,
		interval:   interval,
		logger:     logger,
	}
}

// Start runs the dispatcher on every tick until ctx is done. Wait blocks until
// the loop has exited.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("outbox scheduler started", zap.Duration("interval", s.interval))
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("outbox scheduler stopped")
				return
			case <-ticker.C:
				n, err := s.dispatcher.DispatchOnce(ctx)
				if err != nil {
					s.logger.Error("outbox dispatch failed", zap.Error(err))
				} else if n > 0 {
					s.logger.Info("outbox dispatch processed messages", zap.Int("count", n))
				}
			}
		}
	}()
}

func (s *Scheduler) Wait() { s.wg.Wait() }
