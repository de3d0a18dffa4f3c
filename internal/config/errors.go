package config

import (
	"errors"

	"github.com/nao1215/httpdiff/internal/model"
)

// Configuration validation errors.
// These errors are returned by Config.Validate() and the loaders, and
// describe a problem the user has to fix before a comparison can run.
var (
	// ErrInvalidURLCount is returned when not exactly two URLs are given.
	ErrInvalidURLCount = model.ErrInvalidURLCount

	// ErrMissingMethod is returned when no HTTP method is configured.
	ErrMissingMethod = errors.New("HTTP method is required: use --method or set it in the configuration file")

	// ErrInvalidURL is returned when a URL is not an absolute http or https URL.
	ErrInvalidURL = model.ErrInvalidURL

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidTimeout is returned when a timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for no limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrMalformedHeader is returned for a --header value that is not "Name: Value".
	ErrMalformedHeader = errors.New("malformed header: expected \"Name: Value\"")

	// ErrHeadersFile is returned when the headers file cannot be read.
	ErrHeadersFile = errors.New("cannot read headers file")

	// ErrUnknownProfile is returned when --profile names a profile that the
	// configuration file does not define.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
