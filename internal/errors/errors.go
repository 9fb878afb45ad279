// Package errors defines the structured error type shared by the recipe
// validator and the command pipeline.
package errors

import "fmt"

// Error kinds.
const (
	Validation = "VALIDATION"
	Fatal      = "FATAL"
)

// DiagError is a structured pipeline error. Step and Command carry the recipe
// context in which the problem was found.
type DiagError struct {
	Kind    string
	Step    string
	Command string
	Message string
	Hint    string
}

func (e *DiagError) Error() string {
	msg := e.Message
	if e.Command != "" {
		msg = fmt.Sprintf("command %q: %s", e.Command, msg)
	}
	if e.Step != "" {
		msg = fmt.Sprintf("step %q: %s", e.Step, msg)
	}
	return msg
}

// Validationf builds a recipe-level validation error.
func Validationf(format string, args ...any) *DiagError {
	return &DiagError{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

// StepValidationf builds a validation error scoped to a step.
func StepValidationf(step, format string, args ...any) *DiagError {
	return &DiagError{Kind: Validation, Step: step, Message: fmt.Sprintf(format, args...)}
}

// CommandValidationf builds a validation error scoped to a command within a step.
func CommandValidationf(step, command, format string, args ...any) *DiagError {
	return &DiagError{
		Kind:    Validation,
		Step:    step,
		Command: command,
		Message: fmt.Sprintf(format, args...),
	}
}

// Fatalf builds an irrecoverable error.
func Fatalf(format string, args ...any) *DiagError {
	return &DiagError{Kind: Fatal, Message: fmt.Sprintf(format, args...)}
}
