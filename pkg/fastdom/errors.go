package fastdom

import (
	"fmt"
	"runtime/debug"
)

// PanicError records a panic recovered from a task.
type PanicError struct {
	// Stage is the stage the task ran on.
	Stage Stage

	// Value is the value passed to panic.
	Value any

	// StackTrace is the goroutine stack at recovery time.
	StackTrace string
}

func newPanicError(stage Stage, value any) *PanicError {
	return &PanicError{
		Stage:      stage,
		Value:      value,
		StackTrace: string(debug.Stack()),
	}
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("fastdom: panic in %s task: %v", e.Stage, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
