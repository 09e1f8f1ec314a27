// Package resilience provides the pipeline error taxonomy and retry
// primitives shared by the fetch channel and the sourcing orchestrator.
package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// Sentinel errors for pipeline-level failure modes.
var (
	// ErrInsufficientData signals that no usable candidates survived all
	// extraction strategies. Degrades the result count, never the run.
	ErrInsufficientData = errors.New("insufficient data: no usable candidates")

	// ErrGenerationTimeout signals that the whole-run budget was exceeded.
	// Surfaced to the trigger caller with a cached-results suggestion.
	ErrGenerationTimeout = errors.New("generation timed out")
)

// FetchError wraps a network/timeout/non-2xx failure from the fetch
// channel. Recovered locally per keyword via retry then synthetic
// fallback; never surfaced to the pipeline caller.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return "fetch failed: " + e.Err.Error()
	}
	return "fetch failed: " + e.URL
}

func (e *FetchError) Unwrap() error { return e.Err }

// Transient reports whether the failure is worth retrying: network-level
// errors and retryable HTTP statuses.
func (e *FetchError) Transient() bool {
	if e.StatusCode != 0 {
		return IsTransientHTTPStatus(e.StatusCode)
	}
	return true
}

// ParseError wraps a payload whose shape no extraction strategy
// recognized.
type ParseError struct {
	Platform string
	Keyword  string
	Err      error
}

func (e *ParseError) Error() string {
	msg := "parse failed: " + e.Platform
	if e.Keyword != "" {
		msg += " keyword " + e.Keyword
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// PersistenceError wraps a store write failure. Persistence is
// best-effort per record: the caller logs and continues.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence failed: " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsTransient returns true if the error (or any error in its chain) is a
// retryable fetch failure or matches common transient network patterns.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Transient()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// String-based heuristics for wrapped errors from HTTP clients.
	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// IsTransientHTTPStatus returns true if the HTTP status code indicates a
// transient server-side issue that is safe to retry.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}
