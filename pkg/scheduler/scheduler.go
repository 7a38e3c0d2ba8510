// Package scheduler repeats the pipeline run on a fixed interval while the server is up
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
)

// Job is a single scheduled run
type Job func(ctx context.Context) error

// Scheduler runs the job immediately on start and then every interval
type Scheduler struct {
	job      Job
	interval time.Duration
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

// New makes a scheduler for the job
func New(interval time.Duration, job Job) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{job: job, interval: interval}
}

// Start begins the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.worker(ctx)
	lgr.Printf("[INFO] scheduler started with interval %v", s.interval)
}

// Stop gracefully stops the scheduler, waiting for the running job
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// run immediately on start
	s.run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	if err := s.job(ctx); err != nil {
		lgr.Printf("[WARN] scheduled run failed: %v", err)
	}
}
