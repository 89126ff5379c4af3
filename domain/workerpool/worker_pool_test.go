package workerpool_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	. "github.com/plunderswap/sor/domain/workerpool"
)

func TestDispatcherRun(t *testing.T) {
	dispatcher := NewDispatcher[int](2)

	jobs := make([]Job[int], 0, 5)
	for i := 0; i < 5; i++ {
		i := i
		jobs = append(jobs, Job[int]{Task: func(ctx context.Context) (int, error) { return i * i, nil }})
	}

	results, err := dispatcher.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, result := range results {
		require.True(t, result.Started)
		require.NoError(t, result.Err)
		require.Equal(t, i*i, result.Result)
	}
}

func TestDispatcherRun_JobErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewDispatcher[int](1)

	jobs := []Job[int]{
		{Task: func(ctx context.Context) (int, error) { return 0, errors.New("test error") }},
		{Task: func(ctx context.Context) (int, error) { return 42, nil }},
	}

	results, err := dispatcher.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.EqualError(t, results[0].Err, "test error")
	require.Equal(t, 42, results[1].Result)
	require.NoError(t, results[1].Err)
}

func TestDispatcherRun_BoundsConcurrency(t *testing.T) {
	const maxWorkers = 3
	dispatcher := NewDispatcher[int](maxWorkers)

	var inFlight, maxInFlight atomic.Int32
	jobs := make([]Job[int], 20)
	for i := range jobs {
		jobs[i] = Job[int]{Task: func(ctx context.Context) (int, error) {
			current := inFlight.Add(1)
			for {
				seen := maxInFlight.Load()
				if current <= seen || maxInFlight.CompareAndSwap(seen, current) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return 0, nil
		}}
	}

	_, err := dispatcher.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.LessOrEqual(t, maxInFlight.Load(), int32(maxWorkers))
}

func TestDispatcherRun_CancellationStopsIssuing(t *testing.T) {
	dispatcher := NewDispatcher[int](1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var started atomic.Int32
	jobs := make([]Job[int], 10)
	for i := range jobs {
		jobs[i] = Job[int]{Task: func(ctx context.Context) (int, error) {
			if started.Add(1) == 2 {
				cancel()
			}
			return 1, nil
		}}
	}

	results, err := dispatcher.Run(ctx, jobs)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, started.Load(), int32(len(jobs)))

	skipped := 0
	for _, result := range results {
		if !result.Started {
			skipped++
			require.ErrorIs(t, result.Err, context.Canceled)
		}
	}
	require.Equal(t, len(jobs)-int(started.Load()), skipped)
}

func TestDispatcherRun_Empty(t *testing.T) {
	results, err := NewDispatcher[int](4).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, results)
}
