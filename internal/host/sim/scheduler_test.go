package sim_test

import (
	"context"
	"testing"
	"time"

	"github.com/remoteforge/scenebridge/internal/host"
	"github.com/remoteforge/scenebridge/internal/host/sim"
	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsJobsInOrder(t *testing.T) {
	sched := sim.NewScheduler(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	var order []int
	done := make(chan struct{})

	results := make([]<-chan host.JobResult, 0, 3)
	for i := 0; i < 3; i++ {
		i := i
		results = append(results, sched.Schedule(func(ctx context.Context) (interface{}, error) {
			order = append(order, i)
			return i, nil
		}))
	}

	go func() {
		for _, r := range results {
			<-r
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs did not complete in time")
	}

	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestScheduler_PropagatesJobError(t *testing.T) {
	sched := sim.NewScheduler(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	boom := assert.AnError
	resultCh := sched.Schedule(func(ctx context.Context) (interface{}, error) {
		return nil, boom
	})

	select {
	case res := <-resultCh:
		assert.Equal(t, boom, res.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("job did not complete in time")
	}
}
