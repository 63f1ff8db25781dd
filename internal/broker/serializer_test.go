package broker_test

import (
	"context"
	"testing"
	"time"

	"github.com/remoteforge/scenebridge/internal/broker"
	"github.com/remoteforge/scenebridge/internal/brokererr"
	"github.com/remoteforge/scenebridge/internal/host/sim"
	"github.com/stretchr/testify/assert"
)

func TestSerializer_SubmitReturnsJobValue(t *testing.T) {
	sched := sim.NewScheduler(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	s := broker.NewSerializer(sched, 0, 0, 0)

	value, berr := s.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "ok", nil
	}, 0)

	assert.Nil(t, berr)
	assert.Equal(t, "ok", value)
}

func TestSerializer_NoOverlapAcrossConcurrentSubmits(t *testing.T) {
	sched := sim.NewScheduler(16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	s := broker.NewSerializer(sched, 0, 0, 0)

	var active int32
	var sawOverlap bool
	mu := make(chan struct{}, 1)

	run := func() {
		s.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
			mu <- struct{}{}
			active++
			if active > 1 {
				sawOverlap = true
			}
			<-mu
			time.Sleep(5 * time.Millisecond)
			mu <- struct{}{}
			active--
			<-mu
			return nil, nil
		}, 0)
	}

	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		go func() { run(); done <- struct{}{} }()
	}
	for i := 0; i < 5; i++ {
		<-done
	}

	assert.False(t, sawOverlap)
}

func TestSerializer_TimeoutReturnsTimeoutCode(t *testing.T) {
	sched := sim.NewScheduler(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	s := broker.NewSerializer(sched, 0, 20*time.Millisecond, 0)

	release := make(chan struct{})
	_, berr := s.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
		<-release
		return nil, nil
	}, 0)

	assert.NotNil(t, berr)
	assert.Equal(t, brokererr.Timeout, berr.Code)
	close(release)
}

func TestSerializer_BusyWhenQueueSaturated(t *testing.T) {
	sched := sim.NewScheduler(broker.QueueDepth)

	s := broker.NewSerializer(sched, 20*time.Millisecond, 5*time.Second, 0)

	// Fill every admission slot with a job that never drains (sched.Run
	// is never started), so the semaphore never releases.
	for i := 0; i < broker.QueueDepth; i++ {
		go s.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
			return nil, nil
		}, 0)
	}
	assert.Eventually(t, s.Saturated, time.Second, time.Millisecond)

	_, berr := s.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
		return nil, nil
	}, 0)

	assert.NotNil(t, berr)
	assert.Equal(t, brokererr.Busy, berr.Code)
}
