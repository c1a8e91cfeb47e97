package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNavigation ErrorType = "navigation"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeBrowser    ErrorType = "browser"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeAuth       ErrorType = "auth"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents a scrape error with type information
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error wrapping an optional cause.
func New(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Err: cause}
}

func NewNavigation(message string, cause error) *Error {
	return New(ErrorTypeNavigation, message, cause)
}

func NewTimeout(message string, cause error) *Error {
	return New(ErrorTypeTimeout, message, cause)
}

func NewBrowser(message string, cause error) *Error {
	return New(ErrorTypeBrowser, message, cause)
}

func NewAuth(message string, cause error) *Error {
	return New(ErrorTypeAuth, message, cause)
}

// TypeOf returns the error's type, or ErrorTypeUnknown for untyped errors.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNavigation, ErrorTypeTimeout, ErrorTypeBrowser, ErrorTypeRateLimit:
		return true
	case ErrorTypeAuth, ErrorTypeParsing, ErrorTypeStorage, ErrorTypeConfig:
		return false
	default:
		return false
	}
}

// IsRetryableError reports whether err carries a retryable type. Untyped
// errors default to retryable so transient browser faults are not dropped.
func IsRetryableError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return IsRetryable(e.Type)
	}
	return true
}
