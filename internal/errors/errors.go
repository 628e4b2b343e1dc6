package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// Configuration errors - missing or invalid configuration
	ErrorTypeConfig ErrorType = iota
	// Validation errors - invalid input data
	ErrorTypeValidation
	// Database errors - store connection or query failures
	ErrorTypeDatabase
	// Network errors - network connectivity issues
	ErrorTypeNetwork
	// Internal errors - unexpected internal state
	ErrorTypeInternal
	// UnsupportedLanguage - no specializer for the requested language
	ErrorTypeUnsupportedLanguage
	// MissingPeer - an insight merge was requested without both results
	ErrorTypeMissingPeer
	// PeerUnavailable - the remote analyzer timed out or answered non-success
	ErrorTypePeerUnavailable
	// NotFound - no record under the requested identifier
	ErrorTypeNotFound
)

// Severity represents how critical an error is
type Severity int

const (
	// SeverityLow - can continue with degraded functionality
	SeverityLow Severity = iota
	// SeverityMedium - should be addressed but not fatal
	SeverityMedium
	// SeverityHigh - significant issue, may impact functionality
	SeverityHigh
	// SeverityCritical - must be addressed, stops execution
	SeverityCritical
)

// Sentinels for use with the standard errors.Is. Matching is by Type.
var (
	ErrUnsupportedLanguage = &Error{Type: ErrorTypeUnsupportedLanguage, Message: "unsupported language"}
	ErrMissingPeerResult   = &Error{Type: ErrorTypeMissingPeer, Message: "missing peer result"}
	ErrPeerUnavailable     = &Error{Type: ErrorTypePeerUnavailable, Message: "peer analyzer unavailable"}
	ErrNotFound            = &Error{Type: ErrorTypeNotFound, Message: "not found"}
)

// Error represents a structured error with context
type Error struct {
	Type       ErrorType
	Severity   Severity
	Message    string
	Cause      error
	Context    map[string]interface{}
	StackTrace string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Is checks if this error matches the target error type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// DetailedString returns a detailed error message with context
func (e *Error) DetailedString() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] [%s] %s\n",
		severityString(e.Severity),
		typeString(e.Type),
		e.Message))

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("Caused by: %v\n", e.Cause))
	}

	if len(e.Context) > 0 {
		sb.WriteString("Context:\n")
		for k, v := range e.Context {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", k, v))
		}
	}

	if e.StackTrace != "" {
		sb.WriteString(fmt.Sprintf("Stack trace:\n%s\n", e.StackTrace))
	}

	return sb.String()
}

func typeString(t ErrorType) string {
	switch t {
	case ErrorTypeConfig:
		return "CONFIG"
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeDatabase:
		return "DATABASE"
	case ErrorTypeNetwork:
		return "NETWORK"
	case ErrorTypeInternal:
		return "INTERNAL"
	case ErrorTypeUnsupportedLanguage:
		return "UNSUPPORTED_LANGUAGE"
	case ErrorTypeMissingPeer:
		return "MISSING_PEER"
	case ErrorTypePeerUnavailable:
		return "PEER_UNAVAILABLE"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

func severityString(s Severity) string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// captureStackTrace captures the current stack trace
func captureStackTrace(skip int) string {
	var sb strings.Builder
	for i := skip; i < skip+10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			break
		}
		sb.WriteString(fmt.Sprintf("  %s:%d %s\n", file, line, fn.Name()))
	}
	return sb.String()
}

// New creates a new error with the given type, severity, and message
func New(errType ErrorType, severity Severity, message string) *Error {
	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, severity Severity, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Cause:      err,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(2),
	}
}

// ConfigErrorf creates a configuration error with formatting
func ConfigErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeConfig, SeverityCritical, fmt.Sprintf(format, args...))
}

// ValidationError creates a validation error
func ValidationError(message string) *Error {
	return New(ErrorTypeValidation, SeverityHigh, message)
}

// ValidationErrorf creates a validation error with formatting
func ValidationErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeValidation, SeverityHigh, fmt.Sprintf(format, args...))
}

// DatabaseError wraps a store error
func DatabaseError(err error, message string) *Error {
	return Wrap(err, ErrorTypeDatabase, SeverityCritical, message)
}

// DatabaseErrorf wraps a store error with formatting
func DatabaseErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeDatabase, SeverityCritical, fmt.Sprintf(format, args...))
}

// NetworkError wraps a network error
func NetworkError(err error, message string) *Error {
	return Wrap(err, ErrorTypeNetwork, SeverityHigh, message)
}

// InternalError creates an internal error
func InternalError(message string) *Error {
	return New(ErrorTypeInternal, SeverityCritical, message)
}

// InternalErrorf creates an internal error with formatting
func InternalErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeInternal, SeverityCritical, fmt.Sprintf(format, args...))
}

// UnsupportedLanguage reports a language selector without a specializer
func UnsupportedLanguage(language string) *Error {
	return New(ErrorTypeUnsupportedLanguage, SeverityMedium,
		fmt.Sprintf("Unsupported language: %s", language)).
		WithContext("language", language)
}

// MissingPeerResult reports an insight merge with an absent side
func MissingPeerResult(side string) *Error {
	return New(ErrorTypeMissingPeer, SeverityHigh,
		fmt.Sprintf("missing analysis result for %s", side)).
		WithContext("side", side)
}

// PeerUnavailable wraps a failed call to the remote analyzer. cause may be nil
// when the peer answered with a non-success status.
func PeerUnavailable(cause error, message string) *Error {
	return &Error{
		Type:       ErrorTypePeerUnavailable,
		Severity:   SeverityMedium,
		Message:    message,
		Cause:      cause,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(2),
	}
}

// NotFound reports a missing record
func NotFound(kind, id string) *Error {
	return New(ErrorTypeNotFound, SeverityLow, fmt.Sprintf("%s not found: %s", kind, id)).
		WithContext("id", id)
}

// GetType returns the type of an error
func GetType(err error) ErrorType {
	if err == nil {
		return ErrorTypeInternal
	}

	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}

	return ErrorTypeInternal
}

// HTTPStatus maps an error to the status code the HTTP boundary responds with
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch GetType(err) {
	case ErrorTypeValidation, ErrorTypeUnsupportedLanguage, ErrorTypeMissingPeer:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypePeerUnavailable, ErrorTypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
