package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ib-77/ropline/pkg/rop"
)

var errNilHandler = errors.New("handler is nil")

// ErrInputType is returned when a pipeline without a validator is called
// with input that is not of its input type. Only a hand-built zero
// Pipeline with a non-any input type can hit it.
var ErrInputType = errors.New("pipeline: input type mismatch")

// Call is what the handler receives. HasInput is false when the caller
// supplied no input; with a validator configured validation is then skipped.
type Call[C, In any] struct {
	Context  C
	Input    In
	HasInput bool
}

type Handler[C, In, Out any] func(ctx context.Context, call Call[C, In]) (Out, error)

// Procedure is a compiled pipeline. A non-nil error is an unclassified fault
// and the envelope must be ignored; otherwise the envelope is the result.
type Procedure[Out any] func(ctx context.Context, opts ...CallOption) (rop.Envelope[Out], error)

type callArgs struct {
	input    any
	hasInput bool
}

type CallOption func(*callArgs)

// WithInput supplies the raw input. A nil raw value still counts as present.
func WithInput(raw any) CallOption {
	return func(a *callArgs) {
		a.input = raw
		a.hasInput = true
	}
}

type invocationIDKey struct{}

// InvocationID returns the id of the pipeline call ctx belongs to.
func InvocationID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(invocationIDKey{}).(uuid.UUID)
	return id, ok
}

type executor[C, In, Out any] struct {
	stages    []Stage[C]
	validator *Validator[In]
	handler   Handler[C, In, Out]
	settings  *settings
}

// Finalize binds the handler and closes the pipeline. The returned Procedure
// only reads p's stages and validator and is safe for concurrent use.
func Finalize[C, In, Out any](p Pipeline[C, In], handler Handler[C, In, Out]) Procedure[Out] {
	if handler == nil {
		panic(&ConfigError{Op: "finalize", Err: errNilHandler})
	}

	e := &executor[C, In, Out]{
		stages:    p.stages.flatten(),
		validator: p.validator,
		handler:   handler,
		settings:  p.config(),
	}
	return e.invoke
}

func (e *executor[C, In, Out]) invoke(ctx context.Context, opts ...CallOption) (rop.Envelope[Out], error) {
	var args callArgs
	for _, opt := range opts {
		opt(&args)
	}

	id := uuid.New()
	ctx = context.WithValue(ctx, invocationIDKey{}, id)

	logger := e.settings.logger.With(
		slog.String("pipeline", e.settings.name),
		slog.String("invocation_id", id.String()),
	)

	ctx, span := e.settings.tracer.Start(ctx, e.settings.name+".invoke",
		trace.WithAttributes(
			attribute.String("rop.invocation_id", id.String()),
			attribute.Bool("rop.has_input", args.hasInput),
		))
	defer span.End()

	logger.DebugContext(ctx, "pipeline invoked",
		slog.Int("stages", len(e.stages)),
		slog.Bool("has_input", args.hasInput))

	env, err := e.run(ctx, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if rop.IsCancellationError(err) {
			logger.WarnContext(ctx, "pipeline cancelled", slog.Any("error", err))
		} else {
			logger.ErrorContext(ctx, "pipeline fault", slog.Any("error", err))
		}
		return rop.Envelope[Out]{}, err
	}

	span.SetAttributes(attribute.Bool("rop.ok", env.OK()))
	if !env.OK() {
		span.SetAttributes(attribute.String("rop.code", env.Code()))
		logger.InfoContext(ctx, "pipeline failed",
			slog.String("code", env.Code()),
			slog.Any("errors", env.Errors()))
		return env, nil
	}

	logger.DebugContext(ctx, "pipeline succeeded")
	return env, nil
}

func (e *executor[C, In, Out]) run(ctx context.Context, args callArgs) (rop.Envelope[Out], error) {
	c, err := compose(ctx, e.settings.tracer, e.settings.name, e.stages)
	if err != nil {
		return classify[Out](err)
	}

	call := Call[C, In]{Context: c}
	switch {
	case e.validator == nil:
		input, ok := args.input.(In)
		if !ok && args.input != nil {
			return rop.Envelope[Out]{}, fmt.Errorf("%w: got %T", ErrInputType, args.input)
		}
		call.Input = input
		call.HasInput = args.hasInput
	case args.hasInput:
		input, msgs := e.validate(ctx, args.input)
		if msgs != nil {
			return rop.Failure[Out](rop.CodeValidation, msgs...), nil
		}
		// a nil result is no value: the handler is called without input
		call.Input = input
		call.HasInput = !rop.IsNil(any(input))
	}

	return e.handle(ctx, call)
}

func (e *executor[C, In, Out]) validate(ctx context.Context, raw any) (In, []string) {
	ctx, span := e.settings.tracer.Start(ctx, e.settings.name+".validate",
		trace.WithAttributes(attribute.String("rop.validator", e.validator.Kind().String())))
	defer span.End()

	input, msgs := e.validator.validate(ctx, raw)
	if msgs != nil {
		span.SetAttributes(attribute.Int("rop.violations", len(msgs)))
	}
	return input, msgs
}

func (e *executor[C, In, Out]) handle(ctx context.Context, call Call[C, In]) (rop.Envelope[Out], error) {
	ctx, span := e.settings.tracer.Start(ctx, e.settings.name+".handle")
	defer span.End()

	out, err := e.handler(ctx, call)
	if !rop.IsNil(err) {
		return classify[Out](err)
	}
	return rop.Success(out), nil
}

// classify turns a coded error into a Failure envelope and hands anything
// else back untouched.
func classify[Out any](err error) (rop.Envelope[Out], error) {
	if coded, ok := rop.AsError(err); ok {
		return rop.FailureFrom[Out](coded), nil
	}
	return rop.Envelope[Out]{}, err
}
