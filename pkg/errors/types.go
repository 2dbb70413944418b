// Package errors provides custom error types and error handling utilities for the
// file upload agent. This file defines a small typed-error taxonomy so callers can
// classify a failure (broker/network trouble vs. invalid input vs. a failed local
// operation) without string-matching error messages.
package errors

import "fmt"

// ErrorType represents the category of a TypedError.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork covers broker connect and publish failures; the initial
	// broker connect is retried by pkg/retry on it.
	ErrorTypeNetwork
	// ErrorTypeNotFound covers a missing resource. No code path in this module
	// returns it: a local file missing at upload or delete time is logged and
	// skipped instead.
	ErrorTypeNotFound
	// ErrorTypeValidation covers invalid configuration or TLS material, an outbound
	// envelope that fails to encode, and an upload request that cannot be built.
	// Malformed inbound messages are logged and dropped without a TypedError.
	ErrorTypeValidation
	// ErrorTypeOperation covers a local operation that failed for another reason:
	// merging configuration defaults, metrics store access, or opening, stat'ing
	// or deleting a local file.
	ErrorTypeOperation
	// ErrorTypeTimeout covers a broker connect with no acknowledgement in time and
	// a broker connect or publish cut short by its context.
	ErrorTypeTimeout
	// ErrorTypeResourceBusy covers an overloaded resource. No code path in this
	// module returns it; pkg/retry's default configuration retries it.
	ErrorTypeResourceBusy
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeNetwork:
		return "NetworkError"
	case ErrorTypeNotFound:
		return "NotFoundError"
	case ErrorTypeValidation:
		return "ValidationError"
	case ErrorTypeOperation:
		return "OperationError"
	case ErrorTypeTimeout:
		return "TimeoutError"
	case ErrorTypeResourceBusy:
		return "ResourceBusyError"
	default:
		return "UnknownError"
	}
}

// TypedError is an error carrying a classification used for metrics and retry decisions.
type TypedError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *TypedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *TypedError) Unwrap() error {
	return e.Err
}

func NewNetworkError(message string, err error) error {
	return &TypedError{Type: ErrorTypeNetwork, Message: message, Err: err}
}

func NewNotFoundError(message string, err error) error {
	return &TypedError{Type: ErrorTypeNotFound, Message: message, Err: err}
}

func NewValidationError(message string, err error) error {
	return &TypedError{Type: ErrorTypeValidation, Message: message, Err: err}
}

func NewOperationError(message string, err error) error {
	return &TypedError{Type: ErrorTypeOperation, Message: message, Err: err}
}

func NewTimeoutError(message string, err error) error {
	return &TypedError{Type: ErrorTypeTimeout, Message: message, Err: err}
}

func NewResourceBusyError(message string, err error) error {
	return &TypedError{Type: ErrorTypeResourceBusy, Message: message, Err: err}
}

// IsNetworkError reports whether err (or a wrapped cause) is a network-classified error.
func IsNetworkError(err error) bool {
	var typedErr *TypedError
	return As(err, &typedErr) && typedErr.Type == ErrorTypeNetwork
}

// IsNotFoundError reports whether err is a not-found-classified error.
func IsNotFoundError(err error) bool {
	var typedErr *TypedError
	return As(err, &typedErr) && typedErr.Type == ErrorTypeNotFound
}

// IsValidationError reports whether err is a validation-classified error.
func IsValidationError(err error) bool {
	var typedErr *TypedError
	return As(err, &typedErr) && typedErr.Type == ErrorTypeValidation
}

// IsOperationError reports whether err is an operation-classified error.
func IsOperationError(err error) bool {
	var typedErr *TypedError
	return As(err, &typedErr) && typedErr.Type == ErrorTypeOperation
}

// IsTimeoutError reports whether err is a timeout-classified error.
func IsTimeoutError(err error) bool {
	var typedErr *TypedError
	return As(err, &typedErr) && typedErr.Type == ErrorTypeTimeout
}

// IsResourceBusyError reports whether err is a resource-busy-classified error.
func IsResourceBusyError(err error) bool {
	var typedErr *TypedError
	return As(err, &typedErr) && typedErr.Type == ErrorTypeResourceBusy
}

// IsTransientUploadError reports whether err is classified as a network, timeout
// or resource-busy error. The upload core does not consult it: a failed URI-request
// publish or blob upload is logged and leaves the file not uploaded for that pass.
func IsTransientUploadError(err error) bool {
	return IsNetworkError(err) || IsTimeoutError(err) || IsResourceBusyError(err)
}
