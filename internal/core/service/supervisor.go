package service

import (
	"context"
	"log/slog"
	"sync"
)

// Supervisor owns detached background tasks such as the retrain
// signal: work that outlives the transition fan-out and whose outcome
// is only ever logged. Wait drains in-flight tasks on shutdown.
type Supervisor struct {
	wg     sync.WaitGroup
	logger *slog.Logger
}

func NewSupervisor(logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{logger: logger}
}

// Go runs fn on a detached context so that the spawning request's
// cancellation does not abort the task mid-flight.
func (s *Supervisor) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("background task panicked", "task", name, "panic", r)
			}
		}()
		if err := fn(ctx); err != nil {
			s.logger.Error("background task failed", "task", name, "error", err)
			return
		}
		s.logger.Info("background task finished", "task", name)
	}()
}

// Wait blocks until all spawned tasks have returned.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}
