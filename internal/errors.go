package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the platform API. Message
// is the normalized human-readable string extracted from the response
// body.
type APIError struct {
	Op      string // "login", "dashboard", ...
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// RequestError represents a transport-level failure (DNS, refused
// connection, timeout) before any status code was received.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// CredentialError represents failures reading or writing the local
// credential store.
type CredentialError struct {
	Path string
	Op   string // "read", "write", "clear"
	Err  error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// HistoryError represents failures accessing the offline history cache.
type HistoryError struct {
	Op  string // "open", "put", "get"
	Err error
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("history cache: %s: %v", e.Op, e.Err)
}

func (e *HistoryError) Unwrap() error {
	return e.Err
}

// IsAuthFailure reports whether err is an API error that invalidates the
// stored credentials. Only 401/403 qualify; network errors and server
// faults leave the token store untouched.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}
