package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/ropline/pkg/rop"
)

type person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

const personYAML = `
type: object
required: [name, age]
properties:
  name:
    type: string
  age:
    type: integer
    minimum: 0
`

func nameSchema() *openapi3.Schema {
	doc := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema())
	doc.Required = []string{"name"}
	return doc
}

func TestParse_DecodesValidInput(t *testing.T) {
	t.Parallel()

	s := New[person](nameSchema())
	out, err := s.Parse(map[string]any{"name": "X"})

	require.NoError(t, err)
	assert.Equal(t, person{Name: "X"}, out)
}

func TestParse_MissingRequiredProperty(t *testing.T) {
	t.Parallel()

	s := New[person](nameSchema())
	_, err := s.Parse(map[string]any{})

	var ve *rop.ViolationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Violations, 1)
	assert.Contains(t, ve.Messages()[0], "name")
}

func TestParse_ViolationsKeepOrder(t *testing.T) {
	t.Parallel()

	s, err := FromYAML[person]([]byte(personYAML))
	require.NoError(t, err)

	_, err = s.Parse(map[string]any{})

	var ve *rop.ViolationError
	require.True(t, errors.As(err, &ve))
	msgs := ve.Messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "name")
	assert.Contains(t, msgs[1], "age")
}

func TestParse_WrongType(t *testing.T) {
	t.Parallel()

	s, err := FromYAML[person]([]byte(personYAML))
	require.NoError(t, err)

	_, err = s.Parse(map[string]any{"name": 5, "age": 3})

	var ve *rop.ViolationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Violations, 1)
	assert.Equal(t, []string{"name"}, ve.Violations[0].Path)
}

func TestParse_AcceptsJSONBytesAndStructs(t *testing.T) {
	t.Parallel()

	s, err := FromYAML[person]([]byte(personYAML))
	require.NoError(t, err)

	out, err := s.Parse([]byte(`{"name":"Ada","age":36}`))
	require.NoError(t, err)
	assert.Equal(t, person{Name: "Ada", Age: 36}, out)

	out, err = s.Parse(json.RawMessage(`{"name":"Bob","age":1}`))
	require.NoError(t, err)
	assert.Equal(t, person{Name: "Bob", Age: 1}, out)

	out, err = s.Parse(person{Name: "Eve", Age: 2})
	require.NoError(t, err)
	assert.Equal(t, person{Name: "Eve", Age: 2}, out)
}

func TestParse_InvalidJSONBytes(t *testing.T) {
	t.Parallel()

	s := New[person](nameSchema())
	_, err := s.Parse([]byte(`{"name":`))

	var ve *rop.ViolationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Error(), "invalid JSON")
}

func TestFromJSON_RejectsMalformedDocument(t *testing.T) {
	t.Parallel()

	_, err := FromJSON[person]([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestFromYAML_RejectsMalformedDocument(t *testing.T) {
	t.Parallel()

	_, err := FromYAML[person]([]byte("type: [object"))
	assert.Error(t, err)
}
