package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Equal(t, 5, GetWorkerMaxCount(ctx, 5))
	assert.True(t, IsProcessRemainingEnabled(ctx, true))

	ctx = WithProcessOptions(WithWorkerOptions(ctx, 2), false)
	assert.Equal(t, 2, GetWorkerMaxCount(ctx, 5))
	assert.False(t, IsProcessRemainingEnabled(ctx, true))

	assert.Equal(t, 3, GetWorkerMaxCount(WithWorkerOptions(context.Background(), 0), 3))
}

func TestToJobs_FromChanOrdered(t *testing.T) {
	t.Parallel()

	jobs := ToJobs([]string{"a", "b", "c"})

	out := make(chan Job[string], 3)
	for j := range jobs {
		out <- Job[string]{Index: 2 - j.Index, Value: j.Value}
	}
	close(out)

	got := FromChanOrdered(out, func(j Job[string]) int { return j.Index })
	assert.Equal(t, []Job[string]{{0, "c"}, {1, "b"}, {2, "a"}}, got)
}

func TestLocomotive_ProcessesAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	jobs := ToJobs([]int{1, 2, 3, 4})
	out := make(chan Job[int], 4)
	wg := &sync.WaitGroup{}

	for range 2 {
		wg.Add(1)
		go Locomotive(ctx, jobs, out, func(_ context.Context, j Job[int]) Job[int] {
			return Job[int]{Index: j.Index, Value: j.Value * 10}
		}, CancellationHandlers[Job[int], Job[int]]{}, wg)
	}
	wg.Wait()
	close(out)

	got := FromChanOrdered(out, func(j Job[int]) int { return j.Index })
	assert.Equal(t, []Job[int]{{0, 10}, {1, 20}, {2, 30}, {3, 40}}, got)
}

func TestLocomotive_CancelledReportsRemaining(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := ToJobs([]int{1, 2, 3})
	out := make(chan int, 3)
	wg := &sync.WaitGroup{}
	wg.Add(1)

	Locomotive(ctx, jobs, out, func(_ context.Context, v Job[int]) int { return v.Value },
		CancellationHandlers[Job[int], int]{
			OnCancel: func(_ context.Context, inputCh <-chan Job[int], outCh chan<- int) {
				for j := range inputCh {
					outCh <- -j.Value
				}
			},
			OnCancelUnprocessed: func(_ context.Context, j Job[int], outCh chan<- int) {
				outCh <- -j.Value
			},
		}, wg)
	close(out)

	var got []int
	for v := range out {
		got = append(got, v)
	}
	assert.ElementsMatch(t, []int{-1, -2, -3}, got)
}
