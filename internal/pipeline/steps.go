package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/httpdiff/internal/compare"
	"github.com/nao1215/httpdiff/internal/model"
)

// Fetcher issues the request pair of a comparison.
// *fetch.Dispatcher satisfies it.
type Fetcher interface {
	Dispatch(ctx context.Context, req *model.ComparisonRequest) (left, right model.Outcome, err error)
}

// Exporter hands two differing bodies to a diff tool.
// *export.Exporter satisfies it.
type Exporter interface {
	Export(ctx context.Context, runID, contentType string, left, right []byte) *model.ExportResult
}

// FetchStep fetches both responses concurrently and records failures.
type FetchStep struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(f Fetcher, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{fetcher: f, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step. Only an invalid request is an error; a failed
// fetch is recorded on the result.
func (s *FetchStep) Do(ctx context.Context, run *Run) error {
	left, right, err := s.fetcher.Dispatch(ctx, run.Request)
	if err != nil {
		return err
	}
	run.Left, run.Right = left, right

	for _, o := range []model.Outcome{left, right} {
		if o.Failure != nil {
			s.logger.Warn("fetch failed",
				"side", string(o.Failure.Side),
				"url", o.Failure.URL,
				"reason", o.Failure.Reason,
			)
			run.Result.Failures = append(run.Result.Failures, *o.Failure)
		}
	}

	if left.OK() {
		run.Result.LeftStatus = left.Snapshot.StatusCode
	}
	if right.OK() {
		run.Result.RightStatus = right.Snapshot.StatusCode
	}
	return nil
}

// StatusStep compares the status codes.
type StatusStep struct{}

// Name returns the step name.
func (StatusStep) Name() string {
	return "status"
}

// Do executes the status comparison.
func (StatusStep) Do(_ context.Context, run *Run) error {
	if !run.Fetched() {
		return nil
	}
	run.Result.StatusMatch = compare.CompareStatus(run.Left.Snapshot.StatusCode, run.Right.Snapshot.StatusCode)
	return nil
}

// HeaderStep compares the response headers, skipping excluded names.
type HeaderStep struct{}

// Name returns the step name.
func (HeaderStep) Name() string {
	return "headers"
}

// Do executes the header comparison.
func (HeaderStep) Do(_ context.Context, run *Run) error {
	if !run.Fetched() {
		return nil
	}
	run.Result.HeadersMatch, run.Result.HeaderDiffs = compare.CompareHeaders(
		run.Left.Snapshot.Headers,
		run.Right.Snapshot.Headers,
		run.Request.Excluded,
	)
	return nil
}

// BodyStep compares the response bodies.
type BodyStep struct{}

// Name returns the step name.
func (BodyStep) Name() string {
	return "body"
}

// Do executes the body comparison.
func (BodyStep) Do(_ context.Context, run *Run) error {
	if !run.Fetched() {
		return nil
	}
	run.Result.BodyMatch, run.Result.BodyDiff = compare.CompareBodies(run.Left.Snapshot.Body, run.Right.Snapshot.Body)
	return nil
}

// ExportStep exports differing bodies.
type ExportStep struct {
	exporter Exporter
}

// NewExportStep creates an ExportStep.
func NewExportStep(e Exporter) *ExportStep {
	return &ExportStep{exporter: e}
}

// Name returns the step name.
func (s *ExportStep) Name() string {
	return "export"
}

// Do exports the bodies when they differ. Export problems are recorded on
// the result and never fail the step.
func (s *ExportStep) Do(ctx context.Context, run *Run) error {
	if s.exporter == nil || !run.Fetched() || run.Result.BodyMatch || run.Result.BodyDiff == nil {
		return nil
	}

	contentType := run.Left.Snapshot.ContentType()
	if contentType == "" {
		contentType = run.Right.Snapshot.ContentType()
	}

	run.Result.BodyDiff.Export = s.exporter.Export(ctx,
		run.Result.RunID,
		contentType,
		run.Left.Snapshot.Body,
		run.Right.Snapshot.Body,
	)
	return nil
}

// AggregateStep computes the overall verdict.
type AggregateStep struct{}

// Name returns the step name.
func (AggregateStep) Name() string {
	return "aggregate"
}

// Do executes the aggregation.
func (AggregateStep) Do(_ context.Context, run *Run) error {
	compare.Aggregate(run.Result)
	run.Result.Elapsed = time.Since(run.Result.StartedAt)
	return nil
}

// Comparison returns the standard pipeline: fetch, status, headers, body,
// export and aggregate. A nil exporter disables the export step.
func Comparison(f Fetcher, e Exporter, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewFetchStep(f, p.logger),
		StatusStep{},
		HeaderStep{},
		BodyStep{},
	)
	if e != nil {
		p.AddStep(NewExportStep(e))
	}
	p.AddStep(AggregateStep{})
	return p
}
