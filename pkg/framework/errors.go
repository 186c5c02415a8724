package framework

import (
	"fmt"
	"strings"
)

// AggregatedError aggregates multiple errors.
type AggregatedError struct {
	Errors []error
}

// Error implements error
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}
	msg := make([]string, len(e.Errors)+1)
	msg[0] = "Multiple errors:"
	for n, err := range e.Errors {
		msg[n+1] = err.Error()
	}
	return strings.Join(msg, "\n")
}

// Add adds errors to be aggregated. nil will be skipped.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, err)
		}
	}
	return e
}

// Aggregate returns nil if no error happened, the error itself
// if there is only one, or the aggregated error.
func (e *AggregatedError) Aggregate() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	}
	return e
}

// ControlError is returned by the loop when a controller fails.
type ControlError struct {
	Controller    string
	PriorityLevel int
	Err           error
}

// Error implements error.
func (e *ControlError) Error() string {
	return fmt.Sprintf("controller %s at priority %d: %v", e.Controller, e.PriorityLevel, e.Err)
}

// Unwrap returns the controller's error.
func (e *ControlError) Unwrap() error {
	return e.Err
}

// Cause returns the controller's error.
func (e *ControlError) Cause() error {
	return e.Err
}
