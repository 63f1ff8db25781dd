// Package sim is the default in-process implementation of the host
// capability interfaces, used by cmd/cbd when no real 3D application
// embeds the broker, and by every broker/exec test in this repo.
package sim

import (
	"context"
	"time"

	"github.com/remoteforge/scenebridge/internal/host"
)

// tickInterval is the cadence at which queued jobs are drained. Spec.md
// §4.3 requires "no slower than 100 Hz when idle"; 10ms is exactly
// that rate.
const tickInterval = 10 * time.Millisecond

// Scheduler is a single-threaded main-loop stand-in: Run drains queued
// jobs from one goroutine, so jobs are always executed strictly in
// the order they were scheduled and never overlap.
type Scheduler struct {
	queue chan queuedJob
}

type queuedJob struct {
	job    host.Job
	result chan host.JobResult
}

// NewScheduler creates a Scheduler with the given queue depth. depth
// should match the broker's admission queue bound (spec.md §5: 16) so
// Schedule never blocks once a caller has already been admitted.
func NewScheduler(depth int) *Scheduler {
	if depth <= 0 {
		depth = 16
	}
	return &Scheduler{queue: make(chan queuedJob, depth)}
}

// Schedule implements host.Scheduler.
func (s *Scheduler) Schedule(job host.Job) <-chan host.JobResult {
	result := make(chan host.JobResult, 1)
	s.queue <- queuedJob{job: job, result: result}
	return result
}

// Run implements host.Scheduler. It blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.drainOne(ctx)
		}
	}
}

func (s *Scheduler) drainOne(ctx context.Context) {
	select {
	case qj := <-s.queue:
		value, err := qj.job(ctx)
		qj.result <- host.JobResult{Value: value, Err: err}
	default:
	}
}
