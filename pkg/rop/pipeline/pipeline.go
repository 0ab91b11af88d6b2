package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ib-77/ropline/pkg/rop/pipeline"

// Stage transforms the accumulated context. Stage i receives exactly what
// stage i-1 returned; the first stage receives the zero value of C.
type Stage[C any] func(ctx context.Context, c C) (C, error)

// ErrValidatorAlreadySet is wrapped by the ConfigError raised when a second
// validator is attached to a pipeline.
var ErrValidatorAlreadySet = errors.New("validator already set")

// ConfigError reports builder misuse. It is raised while the pipeline is
// being built and never reaches an envelope.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return "pipeline: " + e.Op + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// stageNode is one link of a persistent list; appending never touches
// existing nodes, so sibling pipelines share their common prefix.
type stageNode[C any] struct {
	stage Stage[C]
	prev  *stageNode[C]
	size  int
}

func (n *stageNode[C]) len() int {
	if n == nil {
		return 0
	}
	return n.size
}

// flatten returns the stages in declaration order.
func (n *stageNode[C]) flatten() []Stage[C] {
	out := make([]Stage[C], n.len())
	for cur := n; cur != nil; cur = cur.prev {
		out[cur.size-1] = cur.stage
	}
	return out
}

type settings struct {
	name   string
	logger *slog.Logger
	tracer trace.Tracer
}

type Option func(*settings)

// WithName names the pipeline in logs and spans.
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *settings) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// Pipeline is an open, extendable pipeline. C is the accumulated context
// type, In the type handed to the handler as input.
type Pipeline[C, In any] struct {
	stages    *stageNode[C]
	validator *Validator[In]
	settings  *settings
}

// New starts an empty pipeline. Without a validator the raw call input is
// passed to the handler unchanged, hence the any input type.
func New[C any](opts ...Option) Pipeline[C, any] {
	s := &settings{
		name:   "pipeline",
		logger: slog.Default(),
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}

	return Pipeline[C, any]{settings: s}
}

// WithStage returns a new pipeline with stage appended.
func (p Pipeline[C, In]) WithStage(stage Stage[C]) Pipeline[C, In] {
	return Pipeline[C, In]{
		stages: &stageNode[C]{
			stage: stage,
			prev:  p.stages,
			size:  p.stages.len() + 1,
		},
		validator: p.validator,
		settings:  p.settings,
	}
}

// Len reports the number of stages.
func (p Pipeline[C, In]) Len() int {
	return p.stages.len()
}

func (p Pipeline[C, In]) HasValidator() bool {
	return p.validator != nil
}

func (p Pipeline[C, In]) Name() string {
	return p.config().name
}

func (p Pipeline[C, In]) config() *settings {
	if p.settings == nil {
		return New[C]().settings
	}
	return p.settings
}

// AttachValidator returns a new pipeline validating its input with v. It
// fails with a *ConfigError when p already has a validator.
func AttachValidator[C, In any](p Pipeline[C, any], v Validator[In]) (Pipeline[C, In], error) {
	if p.validator != nil {
		return Pipeline[C, In]{}, &ConfigError{Op: "attach validator", Err: ErrValidatorAlreadySet}
	}
	if v.kind == 0 {
		return Pipeline[C, In]{}, &ConfigError{Op: "attach validator", Err: errEmptyValidator}
	}

	return Pipeline[C, In]{
		stages:    p.stages,
		validator: &v,
		settings:  p.config(),
	}, nil
}

// WithValidator is AttachValidator for fluent construction; it panics with
// the *ConfigError instead of returning it.
func WithValidator[C, In any](p Pipeline[C, any], v Validator[In]) Pipeline[C, In] {
	out, err := AttachValidator(p, v)
	if err != nil {
		panic(err)
	}
	return out
}
