// Package errors provides typed errors for the download pipeline
package errors

// FaultCode classifies a transport failure at its source, so callers never
// have to infer the failure class from message text
type FaultCode int

const (
	FaultUnknown FaultCode = iota
	FaultTimeout
	FaultNetwork
	FaultRateLimited
	FaultForbidden
	FaultSession
	FaultPayloadTooLarge
)

// baseError is the base implementation for all error types
type baseError struct {
	msg   string
	cause error
}

func (e *baseError) Error() string {
	return e.msg
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ValidationError represents a malformed or unsupported source link
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg}}
}

// ResolutionError represents exhaustion of every resolver service
type ResolutionError struct {
	baseError
}

// NewResolutionError creates a new ResolutionError wrapping the last resolver failure
func NewResolutionError(msg string, cause error) *ResolutionError {
	return &ResolutionError{baseError{msg: msg, cause: cause}}
}

// FetchError represents a failed or implausibly small asset download
type FetchError struct {
	baseError
}

// NewFetchError creates a new FetchError
func NewFetchError(msg string, cause error) *FetchError {
	return &FetchError{baseError{msg: msg, cause: cause}}
}

// DeliveryError represents exhaustion of every delivery profile.
// Cause carries the last underlying transport error.
type DeliveryError struct {
	baseError
}

// NewDeliveryError creates a new DeliveryError wrapping the last transport failure
func NewDeliveryError(msg string, cause error) *DeliveryError {
	return &DeliveryError{baseError{msg: msg, cause: cause}}
}

// TransportError represents a single failed outbound transport call,
// classified at the transport boundary
type TransportError struct {
	baseError
	code FaultCode
}

// NewTransportError creates a new TransportError with a fault code
func NewTransportError(code FaultCode, msg string, cause error) *TransportError {
	return &TransportError{baseError: baseError{msg: msg, cause: cause}, code: code}
}

// Code returns the fault classification
func (e *TransportError) Code() FaultCode {
	return e.code
}

// SessionUnhealthy reports whether the underlying transport session looks
// wedged and is worth a recovery attempt before the next send
func (e *TransportError) SessionUnhealthy() bool {
	switch e.code {
	case FaultSession, FaultTimeout, FaultNetwork:
		return true
	default:
		return false
	}
}

// IsValidationError checks if error is a ValidationError
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// IsResolutionError checks if error is a ResolutionError
func IsResolutionError(err error) bool {
	_, ok := err.(*ResolutionError)
	return ok
}

// IsFetchError checks if error is a FetchError
func IsFetchError(err error) bool {
	_, ok := err.(*FetchError)
	return ok
}

// IsDeliveryError checks if error is a DeliveryError
func IsDeliveryError(err error) bool {
	_, ok := err.(*DeliveryError)
	return ok
}

// AsTransportError returns the TransportError if err is one
func AsTransportError(err error) (*TransportError, bool) {
	te, ok := err.(*TransportError)
	return te, ok
}
