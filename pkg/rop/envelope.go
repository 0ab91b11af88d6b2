package rop

import (
	"encoding/json"
	"fmt"
)

// Envelope is the uniform result of a compiled pipeline call: either a
// successful payload or a structured, recoverable failure.
type Envelope[T any] struct {
	ok     bool
	data   T
	code   string
	errors []string
}

func Success[T any](data T) Envelope[T] {
	return Envelope[T]{
		ok:   true,
		data: data,
	}
}

func Failure[T any](code string, messages ...string) Envelope[T] {
	errs := make([]string, len(messages))
	copy(errs, messages)

	return Envelope[T]{
		ok:     false,
		code:   code,
		errors: errs,
	}
}

// FailureFrom converts a classified error into a Failure envelope. An empty
// code becomes SERVER_ERROR and an empty message list the error description.
func FailureFrom[T any](err Coded) Envelope[T] {
	code := err.ErrorCode()
	if code == "" {
		code = CodeServerError
	}

	msgs := err.ErrorMessages()
	if len(msgs) == 0 {
		msgs = []string{err.Error()}
	}
	return Failure[T](code, msgs...)
}

func (e Envelope[T]) OK() bool {
	return e.ok
}

func (e Envelope[T]) Data() T {
	return e.data
}

func (e Envelope[T]) Code() string {
	return e.code
}

// Errors returns a copy of the ordered failure messages.
func (e Envelope[T]) Errors() []string {
	if e.ok {
		return nil
	}
	errs := make([]string, len(e.errors))
	copy(errs, e.errors)
	return errs
}

func (e Envelope[T]) String() string {
	if e.ok {
		return fmt.Sprintf("ok: %v", e.data)
	}
	return fmt.Sprintf("%s: %v", e.code, e.errors)
}

type successWire[T any] struct {
	OK   bool `json:"ok"`
	Data T    `json:"data"`
}

type failureWire struct {
	OK     bool     `json:"ok"`
	Code   string   `json:"code"`
	Errors []string `json:"errors"`
}

type wire struct {
	OK     bool            `json:"ok"`
	Data   json.RawMessage `json:"data"`
	Code   string          `json:"code"`
	Errors []string        `json:"errors"`
}

func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	if e.ok {
		return json.Marshal(successWire[T]{OK: true, Data: e.data})
	}

	errs := e.errors
	if errs == nil {
		errs = []string{}
	}
	return json.Marshal(failureWire{OK: false, Code: e.code, Errors: errs})
}

func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	if !w.OK {
		*e = Failure[T](w.Code, w.Errors...)
		return nil
	}

	var data T
	if len(w.Data) > 0 {
		if err := json.Unmarshal(w.Data, &data); err != nil {
			return fmt.Errorf("envelope data: %w", err)
		}
	}
	*e = Success(data)
	return nil
}
