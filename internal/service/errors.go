package service

import "errors"

// ValidationError is a client mistake: missing or malformed input, or a reference
// to a document that does not exist.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// NotFoundError means the document named by the request does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

var (
	errTaskNotFound = &NotFoundError{Resource: "Task"}
	errUserNotFound = &NotFoundError{Resource: "User"}
)

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
