package models

import (
	"errors"
	"fmt"
)

// ErrNoData marks a single sub-request for which the API explicitly
// acknowledged "no matching data". It is not a failure on its own: the
// assembler only promotes it to a NoDataError when every dimension of a
// query came back empty.
var ErrNoData = errors.New("no matching data found")

// InvalidParameterError reports a malformed query: missing or reversed
// timestamps, or a code the registry cannot resolve. Raised before any
// network call.
type InvalidParameterError struct {
	Msg string
}

func (e *InvalidParameterError) Error() string { return e.Msg }

// AuthenticationError reports a rejected or missing security token. It is
// fatal and never retried.
type AuthenticationError struct {
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("unauthorized (HTTP %d): check the API security token", e.StatusCode)
}

// RateLimitError surfaces when HTTP 429 responses exhausted the retry
// ceiling.
type RateLimitError struct {
	Attempts int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded after %d attempts", e.Attempts)
}

// NetworkError reports a transport failure that survived the bounded
// retry budget.
type NetworkError struct {
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIResponseError reports a payload the decoder or parser could not make
// sense of. Snippet carries the head of the offending payload for
// diagnostics; retrying would return the same bytes, so it never retries.
type APIResponseError struct {
	Msg     string
	Snippet string
}

func (e *APIResponseError) Error() string {
	if e.Snippet == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, e.Snippet)
}

// NoDataError reports that the API had no matching data for any dimension
// of the query. Raised only once all sub-requests are accounted for.
type NoDataError struct {
	Reason string
}

func (e *NoDataError) Error() string {
	if e.Reason == "" {
		return "no data available for the requested parameters"
	}
	return e.Reason
}

// Snippet truncates a raw payload for inclusion in an APIResponseError.
func Snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
