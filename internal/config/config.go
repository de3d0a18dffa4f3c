package config

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/httpdiff/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "httpdiff"

	// DefaultConnectTimeout bounds dialing and the TLS handshake of each request.
	DefaultConnectTimeout = model.DefaultConnectTimeout

	// DefaultMaxBodySize limits how much of each response body is read.
	// Larger responses fail the fetch instead of exhausting memory.
	DefaultMaxBodySize = 64 << 20

	// DefaultLogFormat is the format of diagnostic logs on stderr.
	DefaultLogFormat = "text"
)

// Config holds all settings of one comparison run.
// It is populated from the configuration file and CLI flags and passed
// through the application rather than kept in global state.
type Config struct {
	// Method is the HTTP method sent to both URLs.
	Method string

	// URLs are the left and right URLs, in that order.
	URLs []string

	// Body is the request body. Only POST, PUT and PATCH send it.
	Body string

	// Host overrides the Host header unless a header sets it.
	Host string

	// UserAgent sets the User-Agent header unless a header sets it.
	UserAgent string

	// Ignore lists response header names left out of the comparison.
	Ignore []string

	// Headers are the request headers resolved so far, keyed by canonical name.
	Headers map[string]string

	// HeadersFile is a file of "Name: Value" lines merged into Headers.
	HeadersFile string

	// HeaderFlags are raw --header values merged into Headers last.
	HeaderFlags []string

	// Insecure skips TLS certificate verification.
	Insecure bool

	// DiffTool is the command run on the two body files when bodies differ.
	DiffTool string

	// Mono disables colors in the text report.
	Mono bool

	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout time.Duration

	// Timeout bounds each whole request. Zero means no limit.
	Timeout time.Duration

	// Proxy is an optional socks5:// proxy URL used for both requests.
	Proxy string

	// FollowRedirects makes both clients follow 3xx responses.
	FollowRedirects bool

	// MaxBodySize is the maximum response body size in bytes. Zero means no limit.
	MaxBodySize int64

	// KeepTempFiles keeps exported body files after the process exits.
	KeepTempFiles bool

	// JSONReport writes the result as JSON. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes the result as Markdown. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. Empty means stdout.
	ReportFile string

	// Verbose enables debug logging and extra report detail.
	Verbose bool

	// LogFormat is "text" or "json".
	LogFormat string

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string

	// Profile selects a named profile from the configuration file.
	Profile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Headers:        make(map[string]string),
		ConnectTimeout: DefaultConnectTimeout,
		MaxBodySize:    DefaultMaxBodySize,
		LogFormat:      DefaultLogFormat,
	}
}

// XDGConfigDir returns the XDG config directory for httpdiff.
// On Linux: ~/.config/httpdiff
// On macOS: ~/Library/Application Support/httpdiff
// On Windows: %APPDATA%\httpdiff
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if len(c.URLs) != 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidURLCount, len(c.URLs))
	}

	if strings.TrimSpace(c.Method) == "" {
		return ErrMissingMethod
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.ConnectTimeout < 0 || c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}

	return nil
}

// SetHeader stores a request header under its canonical name, replacing
// any earlier value.
func (c *Config) SetHeader(name, value string) {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	c.Headers[http.CanonicalHeaderKey(strings.TrimSpace(name))] = value
}

// Request validates the configuration and builds the comparison request.
// Headers must have been resolved with ResolveHeaders first.
func (c *Config) Request() (*model.ComparisonRequest, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	req := model.NewComparisonRequest(c.Method, c.URLs[0], c.URLs[1])
	req.Body = c.Body
	req.HostOverride = c.Host
	req.UserAgent = c.UserAgent
	req.InsecureTLS = c.Insecure
	req.DiffTool = c.DiffTool
	req.ConnectTimeout = c.ConnectTimeout
	req.Timeout = c.Timeout
	req.ProxyURL = c.Proxy
	req.FollowRedirects = c.FollowRedirects
	req.MaxBodySize = c.MaxBodySize
	req.KeepTempFiles = c.KeepTempFiles
	for name, value := range c.Headers {
		req.Headers[name] = value
	}
	req.Exclude(SplitList(c.Ignore)...)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// SplitList splits comma separated values and drops empty entries.
// "Date, Server" and ["Date", "Server"] give the same result.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
