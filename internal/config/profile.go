package config

import (
	"fmt"
	"sort"
	"time"
)

// Profile is a set of settings from the configuration file.
// Pointer fields distinguish "unset" from false so that a profile can turn a
// default off.
type Profile struct {
	// Method is the HTTP method.
	Method string `yaml:"method,omitempty"`

	// Body is the request body.
	Body string `yaml:"body,omitempty"`

	// Host overrides the Host header.
	Host string `yaml:"host,omitempty"`

	// Agent is the User-Agent header.
	Agent string `yaml:"agent,omitempty"`

	// Ignore lists response headers excluded from the comparison.
	Ignore []string `yaml:"ignore,omitempty"`

	// Headers are request headers sent to both URLs.
	Headers map[string]string `yaml:"headers,omitempty"`

	// HeadersFile is a file of "Name: Value" lines.
	HeadersFile string `yaml:"headersFile,omitempty"`

	// Insecure skips TLS certificate verification.
	Insecure *bool `yaml:"insecure,omitempty"`

	// DiffApp is the external diff tool.
	DiffApp string `yaml:"diffapp,omitempty"`

	// Mono disables colors.
	Mono *bool `yaml:"mono,omitempty"`

	// Timeout bounds each whole request (e.g. "30s").
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout time.Duration `yaml:"connectTimeout,omitempty"`

	// Proxy is a socks5:// proxy URL.
	Proxy string `yaml:"proxy,omitempty"`

	// FollowRedirects follows 3xx responses.
	FollowRedirects *bool `yaml:"followRedirects,omitempty"`

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`
}

// File represents the structure of the configuration file.
//
// Example:
//
//	defaults:
//	  method: GET
//	  ignore: [Date, Server]
//	profiles:
//	  staging:
//	    headers:
//	      Authorization: Bearer xxx
//	    insecure: true
type File struct {
	// Defaults apply to every run.
	Defaults Profile `yaml:"defaults"`

	// Profiles are named settings selected with --profile.
	Profiles map[string]Profile `yaml:"profiles"`
}

// GetProfile returns the defaults merged with the named profile.
// An empty name returns the defaults. Profile values override defaults;
// ignore lists are concatenated and header maps merged.
func (f *File) GetProfile(name string) (Profile, error) {
	merged := f.Defaults.clone()
	if name == "" {
		return merged, nil
	}

	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownProfile, name, f.ProfileNames())
	}

	if p.Method != "" {
		merged.Method = p.Method
	}
	if p.Body != "" {
		merged.Body = p.Body
	}
	if p.Host != "" {
		merged.Host = p.Host
	}
	if p.Agent != "" {
		merged.Agent = p.Agent
	}
	merged.Ignore = append(merged.Ignore, p.Ignore...)
	for k, v := range p.Headers {
		if merged.Headers == nil {
			merged.Headers = make(map[string]string)
		}
		merged.Headers[k] = v
	}
	if p.HeadersFile != "" {
		merged.HeadersFile = p.HeadersFile
	}
	if p.Insecure != nil {
		merged.Insecure = p.Insecure
	}
	if p.DiffApp != "" {
		merged.DiffApp = p.DiffApp
	}
	if p.Mono != nil {
		merged.Mono = p.Mono
	}
	if p.Timeout != 0 {
		merged.Timeout = p.Timeout
	}
	if p.ConnectTimeout != 0 {
		merged.ConnectTimeout = p.ConnectTimeout
	}
	if p.Proxy != "" {
		merged.Proxy = p.Proxy
	}
	if p.FollowRedirects != nil {
		merged.FollowRedirects = p.FollowRedirects
	}
	if p.MaxBodySize != 0 {
		merged.MaxBodySize = p.MaxBodySize
	}
	return merged, nil
}

// ProfileNames returns the profile names in sorted order.
func (f *File) ProfileNames() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p Profile) clone() Profile {
	c := p
	c.Ignore = append([]string(nil), p.Ignore...)
	if p.Headers != nil {
		c.Headers = make(map[string]string, len(p.Headers))
		for k, v := range p.Headers {
			c.Headers[k] = v
		}
	}
	return c
}

// Apply copies profile values into the config for every setting whose flag
// was not set on the command line. changed reports whether a flag was set;
// nil means no flag was set.
//
// Profile headers are always applied; --header flags override them later in
// ResolveHeaders. Profile ignore entries are added to the flag entries.
func (c *Config) Apply(p Profile, changed func(flag string) bool) {
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if p.Method != "" && !changed("method") {
		c.Method = p.Method
	}
	if p.Body != "" && !changed("body") {
		c.Body = p.Body
	}
	if p.Host != "" && !changed("host") {
		c.Host = p.Host
	}
	if p.Agent != "" && !changed("agent") {
		c.UserAgent = p.Agent
	}
	c.Ignore = append(append([]string(nil), p.Ignore...), c.Ignore...)
	for name, value := range p.Headers {
		c.SetHeader(name, value)
	}
	if p.HeadersFile != "" && !changed("headers") {
		c.HeadersFile = p.HeadersFile
	}
	if p.Insecure != nil && !changed("insecure") {
		c.Insecure = *p.Insecure
	}
	if p.DiffApp != "" && !changed("diffapp") {
		c.DiffTool = p.DiffApp
	}
	if p.Mono != nil && !changed("mono") {
		c.Mono = *p.Mono
	}
	if p.Timeout != 0 && !changed("timeout") {
		c.Timeout = p.Timeout
	}
	if p.ConnectTimeout != 0 && !changed("connect-timeout") {
		c.ConnectTimeout = p.ConnectTimeout
	}
	if p.Proxy != "" && !changed("proxy") {
		c.Proxy = p.Proxy
	}
	if p.FollowRedirects != nil && !changed("follow-redirects") {
		c.FollowRedirects = *p.FollowRedirects
	}
	if p.MaxBodySize != 0 && !changed("max-body-size") {
		c.MaxBodySize = p.MaxBodySize
	}
}
