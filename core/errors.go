package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"message"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return "invalid input"
	}
	return err.Err.Error()
}

// DependencyError reports a failed call to a collaborator (the database mostly).
// Msg is safe to show to clients; Err keeps the underlying failure.
type DependencyError struct {
	Msg string
	Err error
}

func NewDependencyError(msg string, err error) error {
	return &DependencyError{Msg: msg, Err: err}
}

func (err DependencyError) Error() string {
	if err.Err == nil {
		return err.Msg
	}
	return err.Msg + ": " + err.Err.Error()
}

func (err DependencyError) Unwrap() error { return err.Err }

// Details is the underlying failure message, if any.
func (err DependencyError) Details() string {
	if err.Err == nil {
		return ""
	}
	return errors.Cause(err.Err).Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
