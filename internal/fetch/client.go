package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/httpdiff/internal/model"
)

// maxRedirects limits redirect chains when redirects are followed.
const maxRedirects = 10

// ClientOptions configures a single-use HTTP client.
type ClientOptions struct {
	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout time.Duration

	// Timeout bounds the whole request. Zero means no limit.
	Timeout time.Duration

	// InsecureTLS disables certificate chain and hostname verification.
	InsecureTLS bool

	// ProxyURL is an optional socks5:// proxy URL.
	ProxyURL string

	// FollowRedirects makes the client follow up to maxRedirects redirects.
	FollowRedirects bool
}

// OptionsFromRequest extracts the client options of a comparison request.
func OptionsFromRequest(req *model.ComparisonRequest) ClientOptions {
	return ClientOptions{
		ConnectTimeout:  req.ConnectTimeout,
		Timeout:         req.Timeout,
		InsecureTLS:     req.InsecureTLS,
		ProxyURL:        req.ProxyURL,
		FollowRedirects: req.FollowRedirects,
	}
}

// NewHTTPClient builds a new *http.Client with its own transport.
//
// The transport never shares state with http.DefaultTransport. Transparent
// gzip decoding is disabled so that Content-Encoding, Content-Length and the
// body reach the comparison exactly as the server sent them.
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = model.DefaultConnectTimeout
	}

	dialer := &net.Dialer{Timeout: connectTimeout}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: connectTimeout,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: opts.InsecureTLS, //nolint:gosec // explicitly requested with --insecure
		},
		DisableCompression: true,
		DisableKeepAlives:  true,
		ForceAttemptHTTP2:  true,
	}

	if opts.ProxyURL != "" {
		contextDialer, err := socksDialer(opts.ProxyURL, dialer)
		if err != nil {
			return nil, err
		}
		transport.DialContext = contextDialer.DialContext
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}

	if opts.FollowRedirects {
		client.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		}
	} else {
		client.CheckRedirect = func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return client, nil
}

// socksDialer returns a context-aware SOCKS5 dialer for rawURL that reaches
// the proxy through forward.
func socksDialer(rawURL string, forward *net.Dialer) (proxy.ContextDialer, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %q: %w", rawURL, err)
	}
	if u.Scheme != "socks5" && u.Scheme != "socks5h" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProxy, u.Scheme)
	}

	d, err := proxy.FromURL(u, forward)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return contextDialer{d}, nil
	}
	return cd, nil
}

// contextDialer adapts a proxy.Dialer without context support.
// A cancelled context returns early, but the dial itself may continue
// in the background until it completes.
type contextDialer struct {
	proxy.Dialer
}

// DialContext implements proxy.ContextDialer.
func (d contextDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	type dialResult struct {
		conn net.Conn
		err  error
	}
	resultCh := make(chan dialResult, 1)

	go func() {
		conn, err := d.Dial(network, address)
		resultCh <- dialResult{conn, err}
	}()

	select {
	case result := <-resultCh:
		return result.conn, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
