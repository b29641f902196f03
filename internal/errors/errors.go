package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all worker failure modes
type ErrorCode string

const (
	// IndexOutOfRange indicates a change event referenced an index outside the
	// mirror's current bounds. The authoritative document and its mirror have
	// desynchronized; the host must resend a full snapshot.
	IndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"
	// MirrorMissing indicates a diff was requested for a URI with no mirror.
	// This is a caller contract violation, never silently defaulted.
	MirrorMissing ErrorCode = "MIRROR_MISSING"
	// CellNotFound indicates a cell handle doesn't exist in a mirror
	CellNotFound ErrorCode = "CELL_NOT_FOUND"
	// InvalidEvent indicates a change event with an unknown or malformed kind
	InvalidEvent ErrorCode = "INVALID_EVENT"
	// InvalidParams indicates malformed request parameters
	InvalidParams ErrorCode = "INVALID_PARAMS"
	// RulesetInvalid indicates the recommendation ruleset failed to parse or compile
	RulesetInvalid ErrorCode = "RULESET_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// WorkerError represents an nbdiff error with a stable code and message
type WorkerError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new WorkerError
func New(code ErrorCode, message string, cause error) *WorkerError {
	return &WorkerError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new WorkerError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *WorkerError {
	return &WorkerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *WorkerError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *WorkerError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *WorkerError) WithDetails(details interface{}) *WorkerError {
	e.Details = details
	return e
}

// NewIndexOutOfRange creates the desynchronization fault for an event that
// referenced an index outside [0, length).
func NewIndexOutOfRange(uri string, index, length int) *WorkerError {
	e := Newf(IndexOutOfRange, "event index %d out of range for mirror %s (length %d)", index, uri, length)
	e.Details = map[string]interface{}{
		"uri":    uri,
		"index":  index,
		"length": length,
	}
	return e
}

// NewMirrorMissing creates the missing-mirror fault for a diff request
func NewMirrorMissing(uri string) *WorkerError {
	e := Newf(MirrorMissing, "no mirror registered for %s", uri)
	e.Details = map[string]interface{}{"uri": uri}
	return e
}

// CodeOf returns the stable code of err if it is a WorkerError,
// or InternalError otherwise.
func CodeOf(err error) ErrorCode {
	if we, ok := err.(*WorkerError); ok {
		return we.Code
	}
	return InternalError
}
