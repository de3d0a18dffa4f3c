package model

import (
	"net/http"
	"time"
)

// ResponseSnapshot is the captured outcome of one successful fetch.
// It is never modified after the fetch that produced it returns.
type ResponseSnapshot struct {
	// URL is the requested URL.
	URL string `json:"url"`

	// StatusCode is the HTTP status code.
	StatusCode int `json:"status_code"`

	// Proto is the protocol version reported by the server (e.g. "HTTP/1.1").
	Proto string `json:"proto"`

	// Headers holds the response headers. Repeated header names keep their
	// values in the order they were received.
	Headers http.Header `json:"headers"`

	// Body is the raw response body.
	Body []byte `json:"-"`

	// Elapsed is the time between sending the request and reading the last body byte.
	Elapsed time.Duration `json:"elapsed"`
}

// ContentType returns the Content-Type response header.
func (s *ResponseSnapshot) ContentType() string {
	return s.Headers.Get("Content-Type")
}

// FetchFailure records why a fetch did not produce a snapshot.
type FetchFailure struct {
	// Side is the endpoint that failed.
	Side Side `json:"side"`

	// URL is the URL that was requested.
	URL string `json:"url"`

	// Reason is a human readable description of the failure.
	Reason string `json:"reason"`

	// Err is the underlying error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (f *FetchFailure) Error() string {
	return string(f.Side) + " request to " + f.URL + " failed: " + f.Reason
}

// Unwrap returns the underlying error.
func (f *FetchFailure) Unwrap() error {
	return f.Err
}

// Outcome is the result of fetching one side: exactly one of Snapshot or
// Failure is set.
type Outcome struct {
	Snapshot *ResponseSnapshot
	Failure  *FetchFailure
}

// Succeeded returns an Outcome holding a snapshot.
func Succeeded(s *ResponseSnapshot) Outcome {
	return Outcome{Snapshot: s}
}

// Failed returns an Outcome holding a failure.
func Failed(side Side, url string, err error) Outcome {
	return Outcome{Failure: &FetchFailure{
		Side:   side,
		URL:    url,
		Reason: err.Error(),
		Err:    err,
	}}
}

// OK reports whether the fetch succeeded.
func (o Outcome) OK() bool {
	return o.Snapshot != nil && o.Failure == nil
}
