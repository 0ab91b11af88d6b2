package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/ropline/pkg/rop"
	"github.com/ib-77/ropline/pkg/rop/core"
	"github.com/ib-77/ropline/pkg/rop/pipeline"
)

var errOdd = errors.New("odd fault")

func doubling() pipeline.Procedure[int] {
	predicate := func(_ context.Context, raw any) (int, error) {
		n, ok := raw.(int)
		if !ok {
			return 0, errors.New("Expected int")
		}
		return n, nil
	}

	return pipeline.Finalize(
		pipeline.WithValidator(pipeline.New[struct{}](), pipeline.FromPredicate[int](predicate)),
		func(_ context.Context, call pipeline.Call[struct{}, int]) (int, error) {
			switch {
			case call.Input < 0:
				return 0, rop.NotFound("negative")
			case call.Input == 7:
				return 0, errOdd
			}
			return call.Input * 2, nil
		})
}

func TestRun_ResultsInInputOrder(t *testing.T) {
	t.Parallel()

	ctx := core.WithWorkerOptions(context.Background(), 3)
	items := Run(ctx, doubling(), []any{1, "x", -1, 7, 5})

	require.Len(t, items, 5)
	for i, it := range items {
		assert.Equal(t, i, it.Index)
	}

	assert.Equal(t, 2, items[0].Envelope.Data())
	assert.Equal(t, rop.CodeValidation, items[1].Envelope.Code())
	assert.Equal(t, rop.CodeNotFound, items[2].Envelope.Code())
	assert.ErrorIs(t, items[3].Err, errOdd)
	assert.Equal(t, 10, items[4].Envelope.Data())
}

func TestRun_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Run(context.Background(), doubling(), nil))
}

func TestRun_CancelledReportsRemaining(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	proc := pipeline.Finalize(pipeline.New[struct{}](), func(_ context.Context, _ pipeline.Call[struct{}, any]) (int, error) {
		calls.Add(1)
		return 1, nil
	})

	items := Run(ctx, proc, []any{1, 2, 3})
	require.Len(t, items, 3)
	for _, it := range items {
		assert.ErrorIs(t, it.Err, context.Canceled)
	}
	assert.Zero(t, calls.Load())
}

func TestRun_CancelledWithoutProcessingRemaining(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(core.WithProcessOptions(context.Background(), false))
	cancel()

	items := Run(ctx, doubling(), []any{1, 2, 3})
	assert.Empty(t, items)
}
