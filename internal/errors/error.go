package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryLifecycle  Category = "lifecycle"
	CategoryUpdate     Category = "update"
	CategoryWatch      Category = "watch"
	CategoryDefinition Category = "definition"
	CategoryConfig     Category = "config"
	CategoryCLI        Category = "cli"
)

// Error is a structured error raised by the component runtime or its tooling.
type Error struct {
	// Code is a unique error identifier (e.g., "W001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Component is the name of the component type involved, if any.
	Component string

	// Op names the hook, update step or computed key that failed.
	Op string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Component != "" || e.Op != "" {
		b.WriteString(" (")
		b.WriteString(e.Component)
		if e.Op != "" {
			if e.Component != "" {
				b.WriteString(".")
			}
			b.WriteString(e.Op)
		}
		b.WriteString(")")
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithComponent records the component type name.
func (e *Error) WithComponent(name string) *Error {
	e.Component = name
	return e
}

// WithOp records the failing operation.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
// If err is or wraps an *Error, that *Error is returned.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var we *Error
	if stderrors.As(err, &we) {
		return we
	}
	return New(code).Wrap(err)
}
