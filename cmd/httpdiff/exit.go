package main

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Exit codes.
const (
	// exitIdentical means both responses are the same.
	exitIdentical = 0
	// exitDifferent means the responses differ.
	exitDifferent = 1
	// exitUsage means the command line or configuration is invalid.
	exitUsage = 2
	// exitFetchFailure means at least one request failed.
	exitFetchFailure = 3
	// exitInterrupted means the run was cancelled by a signal.
	exitInterrupted = 130
)

var (
	// errResponsesDiffer is returned after a report showing differences.
	errResponsesDiffer = errors.New("responses differ")

	// errFetchFailed is returned after a report showing a failed request.
	errFetchFailed = errors.New("a request failed")
)

// usageError marks an error caused by the command line or configuration.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

// usage wraps err as a usage error. A nil err stays nil.
func usage(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

// exitCode maps the error returned by the root command to an exit code and
// prints it to stderr when the report has not already explained it.
func exitCode(err error, stderr io.Writer) int {
	var ue *usageError
	switch {
	case err == nil:
		return exitIdentical
	case errors.Is(err, errResponsesDiffer):
		return exitDifferent
	case errors.Is(err, errFetchFailed):
		return exitFetchFailure
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "Error: interrupted")
		return exitInterrupted
	case errors.As(err, &ue):
		fmt.Fprintf(stderr, "Error: %v\nRun 'httpdiff --help' for usage.\n", err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
}
