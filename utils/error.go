package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// Error kinds surfaced by the core. Handlers translate kinds to HTTP status;
// model code only decides the kind and the message.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// StateError reports an operation that is not legal for the entity's current
// status. Status carries the current-status context verbatim.
type StateError struct {
	Message string
	Status  string
}

func (e *StateError) Error() string { return e.Message }

func NewStateError(message string, status string) error {
	return &StateError{Message: message, Status: status}
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(message string) error {
	return &NotFoundError{Message: message}
}

type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string { return e.Message }

func NewPermissionError(message string) error {
	return &PermissionError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

func IsNotFoundError(err error) bool {
	if errors.Is(err, ErrorRecordNotFound) {
		return true
	}
	var ne *NotFoundError
	return errors.As(err, &ne)
}

func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
