package services

import "fmt"

// ErrorKind discriminates service failures so routes can map them to
// HTTP statuses without string matching.
type ErrorKind string

const (
	ErrKindValidation        ErrorKind = "validation"
	ErrKindUnauthorized      ErrorKind = "unauthorized"
	ErrKindNotFound          ErrorKind = "not_found"
	ErrKindConflict          ErrorKind = "conflict"
	ErrKindInvalidTransition ErrorKind = "invalid_transition"
	ErrKindPersistence       ErrorKind = "persistence"
)

// ServiceError carries an error kind plus a human-readable message.
// No operation that returns a ServiceError leaves partial state behind.
type ServiceError struct {
	Kind    ErrorKind
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func validationError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

func unauthorizedError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: ErrKindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: ErrKindConflict, Message: fmt.Sprintf(format, args...)}
}

func transitionError(format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: ErrKindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func persistenceError(err error) *ServiceError {
	return &ServiceError{Kind: ErrKindPersistence, Message: "storage error: " + err.Error()}
}

// AsServiceError returns the ServiceError wrapped in err, or a
// persistence-kind error for anything unexpected.
func AsServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*ServiceError); ok {
		return se
	}
	return persistenceError(err)
}
