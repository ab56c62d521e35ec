// Package scheduler runs the periodic background analysis job.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers a job on a cron expression in a fixed timezone.
type Scheduler struct {
	spec     string
	location *time.Location
	logger   *slog.Logger
	cron     *cron.Cron
}

// New builds a scheduler; the job is attached in Start.
func New(spec string, location *time.Location, logger *slog.Logger) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{spec: spec, location: location, logger: logger}
}

// Start registers the job and begins the cron loop. The job receives a
// context that is canceled when the application shuts down.
func (s *Scheduler) Start(ctx context.Context, job func(ctx context.Context)) error {
	if job == nil {
		return nil
	}
	if s.cron != nil {
		return nil
	}

	c := cron.New(cron.WithLocation(s.location))
	_, err := c.AddFunc(s.spec, func() {
		if s.logger != nil {
			s.logger.Info("scheduled job starting", "spec", s.spec)
		}
		job(ctx)
	})
	if err != nil {
		return fmt.Errorf("register cron job %q: %w", s.spec, err)
	}

	s.cron = c
	c.Start()
	return nil
}

// Stop halts the cron loop and waits for a running job invocation.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}

	done := s.cron.Stop().Done()
	s.cron = nil

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
