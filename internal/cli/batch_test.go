package cli

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func makeJobs(n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{Input: fmt.Sprintf("in%d", i), Output: fmt.Sprintf("out%d", i)}
	}

	return jobs
}

func TestRunBatch_Limit(t *testing.T) {
	var inFlight, peak, done atomic.Int32
	err := RunBatch(context.Background(), makeJobs(20), 3, func(ctx context.Context, job Job) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		done.Add(1)

		return nil
	})

	require.NoError(t, err)
	require.Equal(t, int32(20), done.Load())
	require.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRunBatch_FailuresDoNotStopOthers(t *testing.T) {
	boom := errors.New("boom")
	var done atomic.Int32
	err := RunBatch(context.Background(), makeJobs(6), 2, func(ctx context.Context, job Job) error {
		done.Add(1)
		if job.Input == "in1" || job.Input == "in4" {
			return boom
		}

		return nil
	})

	require.ErrorIs(t, err, boom)
	require.Equal(t, int32(6), done.Load())
	require.Contains(t, err.Error(), "in1: boom")
	require.Contains(t, err.Error(), "in4: boom")
	require.NotContains(t, err.Error(), "in2")
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var called atomic.Int32
	err := RunBatch(ctx, makeJobs(4), 2, func(ctx context.Context, job Job) error {
		called.Add(1)
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, called.Load())
}
