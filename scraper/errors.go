package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrTimeout indicates the marketplace did not answer in time.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string { return fmt.Sprintf("timeout: %v", e.Err) }
func (e ErrTimeout) Unwrap() error { return e.Err }

// ErrConnection indicates a network connectivity failure.
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string { return fmt.Sprintf("connection: %v", e.Err) }
func (e ErrConnection) Unwrap() error { return e.Err }

// ErrBlocked indicates the marketplace refused or throttled the request
// (HTTP 403 or 429).
type ErrBlocked struct {
	Status int
	Err    error
}

func (e ErrBlocked) Error() string { return fmt.Sprintf("blocked (status %d): %v", e.Status, e.Err) }
func (e ErrBlocked) Unwrap() error { return e.Err }

// ErrHTTPStatus indicates any other non-success response.
type ErrHTTPStatus struct {
	Status int
	Err    error
}

func (e ErrHTTPStatus) Error() string {
	return fmt.Sprintf("http status %d: %v", e.Status, e.Err)
}
func (e ErrHTTPStatus) Unwrap() error { return e.Err }

// classify wraps a transport error in the matching taxonomy type.
func classify(err error, status int) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}

	if status != 0 {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", status)
		}
		switch status {
		case http.StatusForbidden, http.StatusTooManyRequests:
			return ErrBlocked{Status: status, Err: wrapped}
		default:
			return ErrHTTPStatus{Status: status, Err: wrapped}
		}
	}
	return err
}

// errorLabel maps a classified error to its metrics label.
func errorLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		return "connection"
	}
	var blocked ErrBlocked
	if errors.As(err, &blocked) {
		return "blocked"
	}
	var httpErr ErrHTTPStatus
	if errors.As(err, &httpErr) {
		return "http_status"
	}
	return "other"
}
