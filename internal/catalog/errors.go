package catalog

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
)

// Error types for catalog server operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, timeout, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates an authentication failure (invalid credentials)
	ErrTypeAuth
	// ErrTypeHTTP indicates an HTTP-level error (unexpected status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a parsing error (malformed JSON, invalid response)
	ErrTypeParse
	// ErrTypeValidation indicates a validation error (invalid request data)
	ErrTypeValidation
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// RemoteError represents an error that occurred while talking to a catalog server
type RemoteError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether the error is retryable
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes an error and returns a more specific error type
func ClassifyNetworkError(err error) *RemoteError {
	if err == nil {
		return nil
	}

	// Check for timeout errors
	if os.IsTimeout(err) {
		return &RemoteError{
			Type:      ErrTypeTimeout,
			Message:   "request timed out",
			Err:       err,
			Retryable: true,
		}
	}

	// Check for DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &RemoteError{
			Type:      ErrTypeDNS,
			Message:   fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:       err,
			Retryable: false,
		}
	}

	// Check for connection refused / unreachable
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &RemoteError{
				Type:      ErrTypeConnectionRefused,
				Message:   "server refused connection",
				Err:       err,
				Retryable: true,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) || errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &RemoteError{
				Type:      ErrTypeNetwork,
				Message:   "server unreachable",
				Err:       err,
				Retryable: true,
			}
		}
	}

	// Check for URL errors
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Recursively classify the underlying error
		return ClassifyNetworkError(urlErr.Err)
	}

	// Generic network error
	return &RemoteError{
		Type:      ErrTypeNetwork,
		Message:   "network error occurred",
		Err:       err,
		Retryable: true,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *RemoteError {
	classified := ClassifyNetworkError(err)
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &RemoteError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// NewAuthError creates an authentication error
func NewAuthError(message string) *RemoteError {
	return &RemoteError{
		Type:       ErrTypeAuth,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Retryable:  false,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *RemoteError {
	retryable := statusCode >= 500 // Server errors are retryable
	return &RemoteError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *RemoteError {
	return &RemoteError{
		Type:      ErrTypeParse,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *RemoteError {
	return &RemoteError{
		Type:      ErrTypeValidation,
		Message:   message,
		Retryable: false,
	}
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Type == ErrTypeNetwork ||
			re.Type == ErrTypeTimeout ||
			re.Type == ErrTypeConnectionRefused ||
			re.Type == ErrTypeDNS
	}
	return false
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Type == ErrTypeAuth
	}
	return false
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Type == ErrTypeHTTP
	}
	return false
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Type == ErrTypeParse
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Type == ErrTypeValidation
	}
	return false
}

// IsNotFound checks if an error is an HTTP 404 from the server
func IsNotFound(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Type == ErrTypeHTTP && re.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var re *RemoteError
	if !errors.As(err, &re) {
		return err.Error()
	}

	switch re.Type {
	case ErrTypeTimeout:
		return "server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "server refused connection - is it running?"
	case ErrTypeDNS:
		return "cannot resolve server hostname"
	case ErrTypeAuth:
		return "authentication failed - check credentials"
	case ErrTypeNetwork:
		return "network error - check connection"
	case ErrTypeHTTP:
		if re.StatusCode == http.StatusNotFound {
			return "category not found on server"
		}
		return fmt.Sprintf("server error (HTTP %d)", re.StatusCode)
	case ErrTypeParse:
		return "failed to parse server response"
	case ErrTypeValidation:
		return re.Message
	default:
		return re.Message
	}
}
