package survey

import (
	"errors"

	"github.com/muurk/surveygen/internal/api"
)

// DefaultGenerationMessage is used when a failed envelope carries no message
const DefaultGenerationMessage = "generation failed"

// GenerationError is returned when the service answered but reported a
// status other than "success".
type GenerationError struct {
	Message string
}

// Error implements the error interface
func (e *GenerationError) Error() string {
	if e.Message == "" {
		return DefaultGenerationMessage
	}
	return e.Message
}

// StateError is returned when an operation is not possible in the current state.
type StateError struct {
	Message string
}

// Error implements the error interface
func (e *StateError) Error() string {
	return e.Message
}

// ErrNoInput is the StateError returned by Regenerate before any Generate call
var ErrNoInput = &StateError{Message: "no input available"}

// IsGenerationError checks if an error is a logical generation failure
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsStateError checks if an error is a state precondition failure
func IsStateError(err error) bool {
	var stateErr *StateError
	return errors.As(err, &stateErr)
}

// errorMessage is the text stored in State.ErrorMessage for err
func errorMessage(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Error()
	}
	if reqErr, ok := api.AsRequestError(err); ok {
		return reqErr.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return api.FallbackMessage
}

// outcome is the metrics/log label for a settled generation
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsGenerationError(err):
		return "failed"
	case api.IsTimeout(err):
		return "timeout"
	default:
		return "error"
	}
}
