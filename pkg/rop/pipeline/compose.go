package pipeline

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ib-77/ropline/pkg/rop"
)

// compose runs the stages one after another starting from the zero context.
// The first failing stage stops the run and its error is returned as is.
func compose[C any](ctx context.Context, tracer trace.Tracer, name string, stages []Stage[C]) (C, error) {
	var acc C
	if len(stages) == 0 {
		return acc, nil
	}

	ctx, span := tracer.Start(ctx, name+".compose",
		trace.WithAttributes(attribute.Int("rop.stages", len(stages))))
	defer span.End()

	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			span.SetAttributes(attribute.Int("rop.stage", i))
			return acc, err
		}

		next, err := stage(ctx, acc)
		if !rop.IsNil(err) {
			span.SetAttributes(attribute.Int("rop.stage", i))
			span.RecordError(err)
			return acc, err
		}
		acc = next
	}

	return acc, nil
}
