package batch

import (
	"context"
	"sync"

	"github.com/ib-77/ropline/pkg/rop"
	"github.com/ib-77/ropline/pkg/rop/core"
	"github.com/ib-77/ropline/pkg/rop/pipeline"
)

const DefaultWorkers = 4

// Item is the outcome of one input. Err is set for unclassified faults and
// for inputs skipped because ctx was cancelled; Envelope is valid otherwise.
type Item[Out any] struct {
	Index    int
	Envelope rop.Envelope[Out]
	Err      error
}

// Run invokes proc once per input. The worker count comes from
// core.WithWorkerOptions (DefaultWorkers when unset). After cancellation,
// queued inputs are reported with ctx.Err() unless core.WithProcessOptions
// disabled processing the remaining ones, in which case they are left out.
func Run[Out any](ctx context.Context, proc pipeline.Procedure[Out], inputs []any) []Item[Out] {
	if len(inputs) == 0 {
		return []Item[Out]{}
	}

	workers := min(core.GetWorkerMaxCount(ctx, DefaultWorkers), len(inputs))
	drain := core.IsProcessRemainingEnabled(ctx, true)

	jobs := core.ToJobs(inputs)
	out := make(chan Item[Out], len(inputs))
	wg := &sync.WaitGroup{}

	engine := func(ctx context.Context, job core.Job[any]) Item[Out] {
		env, err := proc(ctx, pipeline.WithInput(job.Value))
		return Item[Out]{Index: job.Index, Envelope: env, Err: err}
	}

	handlers := core.CancellationHandlers[core.Job[any], Item[Out]]{
		OnCancelUnprocessed: func(ctx context.Context, job core.Job[any], outCh chan<- Item[Out]) {
			if drain {
				outCh <- Item[Out]{Index: job.Index, Err: ctx.Err()}
			}
		},
		OnCancel: func(ctx context.Context, inputCh <-chan core.Job[any], outCh chan<- Item[Out]) {
			if !drain {
				return
			}
			for job := range inputCh {
				outCh <- Item[Out]{Index: job.Index, Err: ctx.Err()}
			}
		},
	}

	for range workers {
		wg.Add(1)
		go core.Locomotive(ctx, jobs, out, engine, handlers, wg)
	}

	wg.Wait()
	close(out)

	return core.FromChanOrdered(out, func(it Item[Out]) int { return it.Index })
}
