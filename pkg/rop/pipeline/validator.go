package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ib-77/ropline/pkg/rop"
)

var errEmptyValidator = errors.New("validator has neither schema nor predicate")

// Schema parses raw input into T. On failure it should return a
// *rop.ViolationError listing every violated constraint in order.
type Schema[T any] interface {
	Parse(raw any) (T, error)
}

// SchemaFunc adapts a function to Schema.
type SchemaFunc[T any] func(raw any) (T, error)

func (f SchemaFunc[T]) Parse(raw any) (T, error) {
	return f(raw)
}

// Predicate checks raw input and converts it to T.
type Predicate[T any] func(ctx context.Context, raw any) (T, error)

type ValidatorKind uint8

const (
	KindSchema ValidatorKind = iota + 1
	KindPredicate
)

func (k ValidatorKind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindPredicate:
		return "predicate"
	default:
		return fmt.Sprintf("ValidatorKind(%d)", uint8(k))
	}
}

// Validator is exactly one of a Schema or a Predicate.
type Validator[T any] struct {
	kind      ValidatorKind
	schema    Schema[T]
	predicate Predicate[T]
}

func FromSchema[T any](s Schema[T]) Validator[T] {
	if s == nil {
		return Validator[T]{}
	}
	return Validator[T]{kind: KindSchema, schema: s}
}

func FromPredicate[T any](p Predicate[T]) Validator[T] {
	if p == nil {
		return Validator[T]{}
	}
	return Validator[T]{kind: KindPredicate, predicate: p}
}

func (v Validator[T]) Kind() ValidatorKind {
	return v.kind
}

// validate runs the validator on present input. Any failure, whatever its
// origin, comes back as the ordered message list of a VALIDATION_ERROR.
func (v Validator[T]) validate(ctx context.Context, raw any) (T, []string) {
	var (
		out T
		err error
	)

	switch v.kind {
	case KindSchema:
		out, err = v.schema.Parse(raw)
	case KindPredicate:
		out, err = v.predicate(ctx, raw)
	default:
		err = errEmptyValidator
	}

	if rop.IsNil(err) {
		return out, nil
	}

	var zero T
	return zero, validationMessages(err)
}

// validationMessages keeps a schema's violation list verbatim and reduces
// everything else, coded domain errors included, to the error description.
func validationMessages(err error) []string {
	var ve *rop.ViolationError
	if errors.As(err, &ve) && ve != nil && len(ve.Violations) > 0 {
		return ve.Messages()
	}
	return []string{err.Error()}
}
