package records

import (
	"errors"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate record")
	ErrNotFound   = errors.New("record not found")
	ErrStorage    = errors.New("storage failure")
)

// Error is a lifecycle failure with a message meant for the person using the app.
type Error struct {
	// Kind is one of ErrValidation, ErrDuplicate, ErrNotFound or ErrStorage.
	Kind error

	// Reason is the human-readable message.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	return e.Reason
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func validationError(reason string) *Error {
	return &Error{Kind: ErrValidation, Reason: reason}
}

func storageError(reason string, err error) *Error {
	return &Error{Kind: ErrStorage, Reason: reason, Err: err}
}

// Reason returns the message to show for err.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var recErr *Error
	if errors.As(err, &recErr) {
		return recErr.Reason
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error"
}
