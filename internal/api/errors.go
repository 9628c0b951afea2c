package api

import (
	"errors"
	"fmt"
)

// NetworkError is returned for every failed API call: transport
// failures, undecodable bodies and non-2xx statuses alike.
//
//	var netErr *api.NetworkError
//	if errors.As(err, &netErr) && netErr.StatusCode == http.StatusNotFound { ... }
type NetworkError struct {
	Op         string // list, create, update, delete
	Method     string
	Path       string
	StatusCode int // 0 when no response was received
	RequestID  string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api: %s: %s %s: status %d: %v", e.Op, e.Method, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("api: %s: %s %s: %v", e.Op, e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ErrUnexpectedStatus is wrapped by NetworkError for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected status")

// IsStatus reports whether err is a NetworkError carrying the given HTTP status.
func IsStatus(err error, status int) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.StatusCode == status
	}
	return false
}
