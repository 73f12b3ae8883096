package dispatch

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates an invalid route table or schema registry at
// cold start. It is fatal: the process must refuse to serve traffic rather
// than run with broken routes.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// RouteNotFoundError indicates that no registered route matched a request.
type RouteNotFoundError struct {
	Method string
	Path   string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route for %s %s", e.Method, e.Path)
}

// DomainError is an expected business failure raised by a controller. It
// maps to its declared status code instead of a generic 500.
type DomainError struct {
	Status  int
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a DomainError with the given status and message.
func NewDomainError(status int, message string) *DomainError {
	return &DomainError{Status: status, Message: message}
}

// RetryableError marks a queue-processing failure as transient. Records
// failing with a retryable error are left on the queue for redelivery;
// everything else is dropped after logging.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Retryable wraps err so queue processing reports it as transient.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err was marked transient.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
