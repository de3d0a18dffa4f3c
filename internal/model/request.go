package model

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Side identifies which of the two endpoints a value belongs to.
type Side string

const (
	// SideLeft is the first URL given on the command line.
	SideLeft Side = "left"
	// SideRight is the second URL given on the command line.
	SideRight Side = "right"
)

// Request validation errors.
var (
	// ErrInvalidURLCount is returned when a request does not carry exactly two URLs.
	ErrInvalidURLCount = errors.New("exactly two URLs are required")

	// ErrMissingMethod is returned when the HTTP method is empty.
	ErrMissingMethod = errors.New("HTTP method is required")

	// ErrInvalidURL is returned when a URL is not an absolute http or https URL.
	ErrInvalidURL = errors.New("URL must be absolute with an http or https scheme")

	// ErrNilExcludeHeaders is returned when the exclusion set is nil.
	ErrNilExcludeHeaders = errors.New("exclude header set must not be nil")
)

// DefaultConnectTimeout bounds the connection phase of each fetch.
const DefaultConnectTimeout = 10 * time.Second

// ComparisonRequest is the fully resolved description of one comparison run.
// The same method, body and headers are applied to both URLs.
type ComparisonRequest struct {
	// Method is the HTTP verb, upper-cased (GET, POST, PUT, DELETE, ...).
	Method string `json:"method"`

	// URLs holds the left and right absolute URLs, in that order.
	URLs []string `json:"urls"`

	// Body is the request payload. It is only sent for methods that carry a body.
	Body string `json:"body,omitempty"`

	// Headers are extra request headers applied identically to both requests.
	// Entries here take precedence over UserAgent and HostOverride.
	Headers map[string]string `json:"headers,omitempty"`

	// HostOverride replaces the Host header unless Headers sets one.
	HostOverride string `json:"host_override,omitempty"`

	// UserAgent sets the User-Agent header unless Headers sets one.
	UserAgent string `json:"user_agent,omitempty"`

	// InsecureTLS skips certificate chain and hostname validation for this run.
	InsecureTLS bool `json:"insecure_tls"`

	// ExcludeHeaders lists response header names ignored by the header comparison.
	ExcludeHeaders map[string]struct{} `json:"-"`

	// DiffTool is the external command invoked with both body files on mismatch.
	DiffTool string `json:"diff_tool,omitempty"`

	// ConnectTimeout bounds the dial and TLS handshake of each request.
	ConnectTimeout time.Duration `json:"connect_timeout"`

	// Timeout bounds each whole request including the body read.
	// Zero means no overall limit.
	Timeout time.Duration `json:"timeout"`

	// ProxyURL routes both requests through a SOCKS5 proxy when set.
	ProxyURL string `json:"proxy_url,omitempty"`

	// FollowRedirects makes the client follow 3xx responses.
	FollowRedirects bool `json:"follow_redirects"`

	// MaxBodySize caps the number of body bytes read per response. Zero means unlimited.
	MaxBodySize int64 `json:"max_body_size"`

	// KeepTempFiles leaves exported body files on disk after the process exits.
	KeepTempFiles bool `json:"keep_temp_files"`
}

// NewComparisonRequest returns a request for the two URLs with defaults applied.
func NewComparisonRequest(method, left, right string) *ComparisonRequest {
	return &ComparisonRequest{
		Method:         strings.ToUpper(strings.TrimSpace(method)),
		URLs:           []string{left, right},
		Headers:        make(map[string]string),
		ExcludeHeaders: make(map[string]struct{}),
		ConnectTimeout: DefaultConnectTimeout,
	}
}

// Left returns the first URL.
func (r *ComparisonRequest) Left() string {
	return r.URLs[0]
}

// Right returns the second URL.
func (r *ComparisonRequest) Right() string {
	return r.URLs[1]
}

// URL returns the URL for the given side.
func (r *ComparisonRequest) URL(side Side) string {
	if side == SideRight {
		return r.Right()
	}
	return r.Left()
}

// Excluded reports whether the response header name is in the exclusion set.
// Names are compared in canonical MIME form.
func (r *ComparisonRequest) Excluded(name string) bool {
	_, ok := r.ExcludeHeaders[http.CanonicalHeaderKey(name)]
	return ok
}

// Exclude adds header names to the exclusion set.
func (r *ComparisonRequest) Exclude(names ...string) {
	if r.ExcludeHeaders == nil {
		r.ExcludeHeaders = make(map[string]struct{})
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r.ExcludeHeaders[http.CanonicalHeaderKey(name)] = struct{}{}
	}
}

// CarriesBody reports whether the method sends the configured body.
// GET, DELETE and every other method without request semantics for a body
// send none, even when Body is set.
func (r *ComparisonRequest) CarriesBody() bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// Validate checks the request invariants.
func (r *ComparisonRequest) Validate() error {
	if len(r.URLs) != 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidURLCount, len(r.URLs))
	}
	if strings.TrimSpace(r.Method) == "" {
		return ErrMissingMethod
	}
	for _, raw := range r.URLs {
		if err := validateURL(raw); err != nil {
			return err
		}
	}
	if r.ExcludeHeaders == nil {
		return ErrNilExcludeHeaders
	}
	return nil
}

// validateURL checks that raw is an absolute http(s) URL with a host.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}
	return nil
}
