package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Configuration errors
var (
	ErrEmptyFeedList  = errors.New("feed list is empty")
	ErrEmptyFeed      = errors.New("feed identifier is empty")
	ErrDuplicateFeed  = errors.New("feed identifier listed more than once")
	ErrEmptyAPIKey    = errors.New("api key is empty")
	ErrInvalidBaseURL = errors.New("invalid base url")
	ErrEmptyOutputDir = errors.New("output directory is empty")
)

// Job errors
var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrRunNotFound            = errors.New("run not found")
)

// ConfigError reports invalid or missing configuration. It is fatal to a run
// and is always raised before any job is attempted.
type ConfigError struct {
	Field string
	Err   error
}

// Error returns the error message
func (e *ConfigError) Error() string {
	if e.Field != "" {
		if e.Err != nil {
			return "config " + e.Field + ": " + e.Err.Error()
		}
		return "config " + e.Field + ": invalid"
	}
	if e.Err != nil {
		return "config: " + e.Err.Error()
	}
	return "invalid configuration"
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error
func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

// IsConfigError returns true if err is or wraps a ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// HTTPError represents a non-2xx response from the feed provider.
type HTTPError struct {
	StatusCode int
	Status     string
}

// Error returns the error message
func (e *HTTPError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return "http status " + status
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, status string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Status: status}
}

// IsHTTPError returns true if err is or wraps an HTTPError
func IsHTTPError(err error) bool {
	var he *HTTPError
	return errors.As(err, &he)
}

// StatusCode returns the HTTP status code carried by err, if any
func StatusCode(err error) (int, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode, true
	}
	return 0, false
}

// TransportError covers network failures (refused, reset, DNS, TLS, timeout)
// and local I/O failures while persisting a response.
type TransportError struct {
	Op  string
	Err error
}

// Error returns the error message
func (e *TransportError) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return e.Op + ": " + e.Err.Error()
		}
		return e.Op
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "transport error"
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new transport error
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// IsTransportError returns true if err is or wraps a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
