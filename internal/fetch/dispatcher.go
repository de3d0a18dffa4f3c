package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/httpdiff/internal/model"
)

// ClientFactory builds the HTTP client used for one fetch.
type ClientFactory func(opts ClientOptions) (Doer, error)

// Doer is the subset of *http.Client used by the Dispatcher.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Dispatcher fetches the left and right URLs of a comparison concurrently.
type Dispatcher struct {
	// newClient builds a fresh client for every fetch.
	newClient ClientFactory

	// logger is used for structured logging of each fetch.
	logger *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used by the Dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithClientFactory replaces the function that builds per-fetch clients.
func WithClientFactory(f ClientFactory) Option {
	return func(d *Dispatcher) {
		d.newClient = f
	}
}

// NewDispatcher creates a Dispatcher. By default every fetch gets a client
// from NewHTTPClient.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		newClient: func(o ClientOptions) (Doer, error) {
			return NewHTTPClient(o)
		},
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// Dispatch sends the request to both URLs at the same time and waits for
// both to finish. Each side's outcome is written once to its own slot.
// The returned error is non-nil only for an invalid request; fetch failures
// are reported through the outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, req *model.ComparisonRequest) (left, right model.Outcome, err error) {
	if req == nil {
		return model.Outcome{}, model.Outcome{}, ErrNilRequest
	}
	if err := req.Validate(); err != nil {
		return model.Outcome{}, model.Outcome{}, err
	}

	// A plain Group is used rather than WithContext: one failing side must
	// not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		left = d.fetch(ctx, req, model.SideLeft)
		return nil
	})
	g.Go(func() error {
		right = d.fetch(ctx, req, model.SideRight)
		return nil
	})
	_ = g.Wait() //nolint:errcheck // fetch goroutines never return errors

	return left, right, nil
}

// fetch performs one request and converts the response into an Outcome.
func (d *Dispatcher) fetch(ctx context.Context, req *model.ComparisonRequest, side model.Side) model.Outcome {
	target := req.URL(side)
	logger := d.logger.With("side", string(side), "url", target)

	client, err := d.newClient(OptionsFromRequest(req))
	if err != nil {
		logger.Warn("failed to build http client", "error", err)
		return model.Failed(side, target, fmt.Errorf("client setup: %w", err))
	}

	httpReq, err := BuildRequest(ctx, req, target)
	if err != nil {
		logger.Warn("failed to build request", "error", err)
		return model.Failed(side, target, fmt.Errorf("create request: %w", err))
	}

	logger.Debug("sending request",
		"method", httpReq.Method,
		"host", httpReq.Host,
		headerGroup("headers", httpReq.Header),
	)

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		logger.Warn("request failed", "error", err)
		if IsTimeout(err) {
			err = fmt.Errorf("timed out: %w", err)
		}
		return model.Failed(side, target, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp.Body, req.MaxBodySize)
	if err != nil {
		logger.Warn("failed to read response body", "error", err)
		return model.Failed(side, target, fmt.Errorf("read body: %w", err))
	}
	elapsed := time.Since(start)

	logger.Debug("response received",
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", elapsed,
	)

	return model.Succeeded(&model.ResponseSnapshot{
		URL:        target,
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
		Headers:    resp.Header.Clone(),
		Body:       body,
		Elapsed:    elapsed,
	})
}

// readBody reads r fully, failing with ErrBodyTooLarge when more than limit
// bytes are available. A limit of zero or less disables the check.
func readBody(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}

	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, limit)
	}
	return body, nil
}

// IsTimeout reports whether err is a timeout of a fetch.
func IsTimeout(err error) bool {
	var te interface{ Timeout() bool }
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// headerGroup renders request headers as a log group. Values pass through
// the secure log handler, which redacts credentials by header name.
func headerGroup(key string, h http.Header) slog.Attr {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]any, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, slog.String(name, h.Get(name)))
	}
	return slog.Group(key, attrs...)
}
