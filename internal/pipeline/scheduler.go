package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/hawaii-firewx/internal/observability"
)

// JobRenderer renders one request.
type JobRenderer interface {
	Render(ctx context.Context, req Request) (Result, error)
}

// Scheduler re-renders a fixed set of jobs on an interval.
type Scheduler struct {
	renderer       JobRenderer
	requests       []Request
	interval       time.Duration
	initialBackoff time.Duration
	logger         *slog.Logger
	metrics        *observability.Metrics
	ready          atomic.Bool
}

// NewScheduler converts jobs to requests up front so a bad job fails at
// startup rather than on every cycle.
func NewScheduler(r JobRenderer, jobs []Job, defaultReference string, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) (*Scheduler, error) {
	requests := make([]Request, len(jobs))
	for i, j := range jobs {
		req, err := j.Request(defaultReference)
		if err != nil {
			return nil, err
		}
		requests[i] = req
	}
	return &Scheduler{
		renderer:       r,
		requests:       requests,
		interval:       interval,
		initialBackoff: 30 * time.Second,
		logger:         logger,
		metrics:        metrics,
	}, nil
}

// SetInitialBackoff changes the first retry delay after a failed cycle.
func (s *Scheduler) SetInitialBackoff(d time.Duration) {
	s.initialBackoff = d
}

// CheckReadiness returns nil once every job has rendered at least once in a
// single cycle.
func (s *Scheduler) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no complete render cycle yet")
	}
	return nil
}

// Run renders all jobs, waits for the interval and repeats until ctx is
// cancelled. After a cycle with failures the next cycle starts after an
// exponential backoff capped at the interval.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "jobs", len(s.requests), "interval", s.interval)
	s.metrics.SchedulerRunning.Set(1)
	defer s.metrics.SchedulerRunning.Set(0)

	backoff := s.initialBackoff
	for {
		failed := s.cycle(ctx)
		if ctx.Err() != nil {
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		}

		wait := s.interval
		if failed > 0 {
			wait = min(backoff, s.interval)
			backoff = nextBackoff(backoff, s.interval)
			s.logger.Warn("render cycle had failures", "failed", failed, "retry_in", wait)
		} else {
			backoff = s.initialBackoff
			s.ready.Store(true)
		}

		if !sleepWithContext(ctx, wait) {
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// cycle renders every job once and returns the number that failed.
func (s *Scheduler) cycle(ctx context.Context) int {
	failed := 0
	for _, req := range s.requests {
		if ctx.Err() != nil {
			return failed
		}
		if _, err := s.renderer.Render(ctx, req); err != nil {
			if ctx.Err() != nil {
				return failed
			}
			s.logger.Error("render failed",
				"product", req.Product,
				"reference_system", req.Borders.ReferenceSystem,
				"error", err,
			)
			failed++
		}
	}
	return failed
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
