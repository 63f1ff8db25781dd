package broker

import (
	"context"
	"time"

	"github.com/remoteforge/scenebridge/internal/brokererr"
	"github.com/remoteforge/scenebridge/internal/host"
)

const (
	// DefaultAdmissionTimeout is how long a worker waits to acquire
	// the serializer's single slot before giving up (spec.md §4.3
	// step 2).
	DefaultAdmissionTimeout = 2 * time.Second

	// DefaultJobTimeout is the per-command default completion
	// deadline when a request carries no _timeout_seconds override.
	DefaultJobTimeout = 30 * time.Second

	// HardJobTimeout is the absolute ceiling no override can exceed
	// (spec.md §4.3 step 3, §5).
	HardJobTimeout = 600 * time.Second

	// QueueDepth bounds how many requests may be admitted (queued or
	// mid-execution) at once (spec.md §5).
	QueueDepth = 16
)

// Serializer is the Execution Serializer (C4): it enforces that at
// most one main-loop job runs at any instant, across an unbounded
// number of concurrent I/O workers.
//
// The single-slot "busy flag" spec.md §3 describes and the bounded
// "queue depth 16" of spec.md §4.3/§5 are modeled together as one
// counting semaphore of capacity QueueDepth: acquiring a semaphore
// token is admission, and the token currently held by the one
// in-flight job is indistinguishable from a queued one for admission
// purposes — both count against the same cap.
type Serializer struct {
	sched host.Scheduler
	sem   chan struct{}

	admissionTimeout time.Duration
	defaultTimeout    time.Duration
	hardTimeout       time.Duration
}

// NewSerializer wraps sched with the admission/queue discipline. Pass
// zero durations to use the spec.md defaults.
func NewSerializer(sched host.Scheduler, admissionTimeout, defaultTimeout, hardTimeout time.Duration) *Serializer {
	if admissionTimeout <= 0 {
		admissionTimeout = DefaultAdmissionTimeout
	}
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultJobTimeout
	}
	if hardTimeout <= 0 {
		hardTimeout = HardJobTimeout
	}
	return &Serializer{
		sched:            sched,
		sem:              make(chan struct{}, QueueDepth),
		admissionTimeout: admissionTimeout,
		defaultTimeout:   defaultTimeout,
		hardTimeout:      hardTimeout,
	}
}

// Saturated reports whether the admission semaphore is fully
// occupied — used by the connection pool (C9) to fail fast on accept
// before even reading a frame (spec.md §4.6 admission control).
func (s *Serializer) Saturated() bool {
	return len(s.sem) >= cap(s.sem)
}

// Submit admits, schedules, and awaits one main-loop job. overrideSeconds
// is the request's optional _timeout_seconds (0 means "not set").
func (s *Serializer) Submit(ctx context.Context, job host.Job, overrideSeconds float64) (interface{}, *brokererr.BrokerError) {
	select {
	case s.sem <- struct{}{}:
		// admitted
	case <-time.After(s.admissionTimeout):
		return nil, brokererr.New(brokererr.Busy, "serializer queue full, try again later")
	}

	resultCh := s.sched.Schedule(job)
	deadline := s.resolveDeadline(overrideSeconds)

	select {
	case res := <-resultCh:
		<-s.sem // release only after the job has actually completed
		if res.Err != nil {
			return nil, brokererr.Wrap(res.Err)
		}
		return res.Value, nil

	case <-time.After(deadline):
		// Abandon: close the connection's wait, but the job keeps
		// running on the main loop (spec.md §4.3's ordering
		// guarantee requires the slot stay held until it truly
		// finishes, not merely until this worker gives up).
		go func() {
			<-resultCh
			<-s.sem
		}()
		return nil, brokererr.New(brokererr.Timeout, "main-loop job did not complete before the request deadline")
	}
}

func (s *Serializer) resolveDeadline(overrideSeconds float64) time.Duration {
	deadline := s.defaultTimeout
	if overrideSeconds > 0 {
		deadline = time.Duration(overrideSeconds * float64(time.Second))
	}
	if deadline > s.hardTimeout {
		deadline = s.hardTimeout
	}
	return deadline
}
