package schema

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/ib-77/ropline/pkg/rop"
)

// Schema validates raw input against an OpenAPI schema and decodes it into T.
type Schema[T any] struct {
	doc  *openapi3.Schema
	opts []openapi3.SchemaValidationOption
}

func New[T any](doc *openapi3.Schema, opts ...openapi3.SchemaValidationOption) *Schema[T] {
	return &Schema[T]{
		doc:  doc,
		opts: append([]openapi3.SchemaValidationOption{openapi3.MultiErrors()}, opts...),
	}
}

// FromJSON loads a schema document and checks that it is well formed.
func FromJSON[T any](data []byte, opts ...openapi3.SchemaValidationOption) (*Schema[T], error) {
	var doc openapi3.Schema
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("schema: invalid document: %w", err)
	}
	return New[T](&doc, opts...), nil
}

func FromYAML[T any](data []byte, opts ...openapi3.SchemaValidationOption) (*Schema[T], error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("schema: convert yaml: %w", err)
	}
	return FromJSON[T](b, opts...)
}

// Document exposes the underlying schema object.
func (s *Schema[T]) Document() *openapi3.Schema {
	return s.doc
}

func (s *Schema[T]) Parse(raw any) (T, error) {
	var out T

	value, err := normalize(raw)
	if err != nil {
		return out, &rop.ViolationError{Violations: []rop.Violation{{Message: err.Error()}}}
	}

	if err := s.doc.VisitJSON(value, s.opts...); err != nil {
		return out, &rop.ViolationError{Violations: violations(err)}
	}

	if err := decode(value, &out); err != nil {
		return out, fmt.Errorf("schema: decode value: %w", err)
	}
	return out, nil
}

// normalize turns raw input into plain JSON values. Byte slices are read as
// JSON documents, anything else goes through a JSON round trip.
func normalize(raw any) (any, error) {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("unsupported input: %w", err)
		}
		data = b
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return value, nil
}

func decode(value any, out any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func violations(err error) []rop.Violation {
	switch e := err.(type) {
	case openapi3.MultiError:
		out := make([]rop.Violation, 0, len(e))
		for _, inner := range e {
			out = append(out, violations(inner)...)
		}
		return out
	case *openapi3.SchemaError:
		msg := e.Reason
		if msg == "" {
			msg = e.Error()
		}
		return []rop.Violation{{Path: e.JSONPointer(), Message: msg}}
	default:
		return []rop.Violation{{Message: err.Error()}}
	}
}
