package rop

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeServerError  = "SERVER_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
)

const (
	msgValidation   = "Validation failed"
	msgUnauthorized = "Unauthorized"
	msgForbidden    = "Forbidden"
	msgNotFound     = "Not found"
)

// Error is a recoverable domain failure. Raised from a stage or a handler it
// is converted 1:1 into a Failure envelope.
type Error struct {
	Code     string
	Messages []string

	message string
	cause   error
}

// NewError builds a domain error. An empty code becomes SERVER_ERROR and an
// empty message list becomes the single description message.
func NewError(code, message string, messages ...string) *Error {
	if code == "" {
		code = CodeServerError
	}

	msgs := append([]string(nil), messages...)
	if len(msgs) == 0 {
		msgs = append(msgs, message)
	}

	return &Error{
		Code:     code,
		Messages: msgs,
		message:  message,
	}
}

// Errorf builds a SERVER_ERROR domain error with a formatted description.
func Errorf(format string, args ...any) *Error {
	return NewError(CodeServerError, fmt.Sprintf(format, args...))
}

func ValidationError(messages ...string) *Error {
	return withDefault(CodeValidation, msgValidation, messages)
}

func Unauthorized(messages ...string) *Error {
	return withDefault(CodeUnauthorized, msgUnauthorized, messages)
}

func Forbidden(messages ...string) *Error {
	return withDefault(CodeForbidden, msgForbidden, messages)
}

func NotFound(messages ...string) *Error {
	return withDefault(CodeNotFound, msgNotFound, messages)
}

func withDefault(code, def string, messages []string) *Error {
	if len(messages) == 0 {
		return NewError(code, def)
	}
	return NewError(code, messages[0], messages...)
}

func (e *Error) Error() string {
	if e.message != "" {
		return e.message
	}
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, "; ")
	}
	if e.Code != "" {
		return e.Code
	}
	return CodeServerError
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) ErrorCode() string {
	return e.Code
}

func (e *Error) ErrorMessages() []string {
	msgs := make([]string, len(e.Messages))
	copy(msgs, e.Messages)
	return msgs
}

// WithCode returns a copy carrying a different code.
func (e *Error) WithCode(code string) *Error {
	cp := *e
	cp.Code = code
	cp.Messages = e.ErrorMessages()
	return &cp
}

// WithCause returns a copy that unwraps to cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.cause = cause
	cp.Messages = e.ErrorMessages()
	return &cp
}

// AsError finds the first classified error in err's chain.
func AsError(err error) (Coded, bool) {
	if IsNil(err) {
		return nil, false
	}

	var coded Coded
	if errors.As(err, &coded) && !IsNil(coded) {
		return coded, true
	}
	return nil, false
}

// Violation is a single failed constraint reported by a schema.
type Violation struct {
	Path    []string
	Message string
}

func (v Violation) String() string {
	if len(v.Path) == 0 {
		return v.Message
	}
	return strings.Join(v.Path, ".") + ": " + v.Message
}

// ViolationError carries the ordered violations a schema emitted for one input.
type ViolationError struct {
	Violations []Violation
}

func (e *ViolationError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages renders one message per violation, in emission order.
func (e *ViolationError) Messages() []string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.String())
	}
	return msgs
}
