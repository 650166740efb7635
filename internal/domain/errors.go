// Package domain defines core types, interfaces, and errors for the query service.
package domain

import "fmt"

// ValidationError indicates invalid input at a request boundary.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ProvisioningError indicates the dataset could not be obtained. It is fatal
// and only ever produced during startup.
type ProvisioningError struct {
	Name     string
	Location string
	Err      error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provision dataset %q from %s: %v", e.Name, e.Location, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// QueryExecutionError indicates a query could not be run or its result could
// not be decoded. Message carries the underlying engine message.
type QueryExecutionError struct {
	Message string
	Err     error
}

func (e *QueryExecutionError) Error() string { return e.Message }

func (e *QueryExecutionError) Unwrap() error { return e.Err }

// RenderError indicates a successful result could not be presented.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render result: " + e.Err.Error() }

func (e *RenderError) Unwrap() error { return e.Err }

// AgentError indicates the natural-language agent failed or produced an
// unusable answer.
type AgentError struct {
	Message string
	Err     error
}

func (e *AgentError) Error() string { return e.Message }

func (e *AgentError) Unwrap() error { return e.Err }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrQueryExecution wraps err as a QueryExecutionError keeping its message.
func ErrQueryExecution(err error) *QueryExecutionError {
	return &QueryExecutionError{Message: err.Error(), Err: err}
}

// ErrAgent wraps err as an AgentError with a formatted prefix.
func ErrAgent(err error, format string, args ...interface{}) *AgentError {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg += ": " + err.Error()
	}
	return &AgentError{Message: msg, Err: err}
}
