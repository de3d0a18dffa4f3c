package model

import "time"

// HeaderDiffKind classifies a header difference.
type HeaderDiffKind string

const (
	// HeaderDifferent means both responses carry the header with different values.
	HeaderDifferent HeaderDiffKind = "different"
	// HeaderLeftOnly means only the left response carries the header.
	HeaderLeftOnly HeaderDiffKind = "left-only"
	// HeaderRightOnly means only the right response carries the header.
	HeaderRightOnly HeaderDiffKind = "right-only"
)

// HeaderDiff is one mismatching or one-sided response header.
type HeaderDiff struct {
	// Name is the header name as received.
	Name string `json:"name"`

	// Kind tells whether the values differ or the header is one-sided.
	Kind HeaderDiffKind `json:"kind"`

	// Left holds the left values in received order. Empty for right-only headers.
	Left []string `json:"left,omitempty"`

	// Right holds the right values in received order. Empty for left-only headers.
	Right []string `json:"right,omitempty"`
}

// OneSided reports whether the header exists on only one side.
func (d HeaderDiff) OneSided() bool {
	return d.Kind == HeaderLeftOnly || d.Kind == HeaderRightOnly
}

// BodyMismatchReason tells how two bodies differ.
type BodyMismatchReason string

const (
	// BodyDifferentLength means the body lengths differ. Content is not compared.
	BodyDifferentLength BodyMismatchReason = "different-length"
	// BodyDifferentContent means the lengths match but the bytes differ.
	BodyDifferentContent BodyMismatchReason = "different-content"
)

// DiffStats summarizes a character level diff without carrying the content.
type DiffStats struct {
	// Inserted is the number of runes present only in the right body.
	Inserted int `json:"inserted"`

	// Deleted is the number of runes present only in the left body.
	Deleted int `json:"deleted"`

	// Equal is the number of runes shared by both bodies.
	Equal int `json:"equal"`

	// Hunks is the number of changed regions.
	Hunks int `json:"hunks"`

	// FirstDifference is the byte offset of the first differing byte.
	FirstDifference int `json:"first_difference"`
}

// ExportResult describes what the diff export did with two differing bodies.
type ExportResult struct {
	// LeftPath is the temporary file holding the left body.
	LeftPath string `json:"left_path,omitempty"`

	// RightPath is the temporary file holding the right body.
	RightPath string `json:"right_path,omitempty"`

	// Tool is the diff command that was run, if any.
	Tool string `json:"tool,omitempty"`

	// ToolRan is true when the diff command was started and waited for.
	ToolRan bool `json:"tool_ran"`

	// ExitCode is the diff command's exit code. Only meaningful when ToolRan is true.
	ExitCode int `json:"exit_code"`

	// Removed is true when both temporary files were deleted after the tool ran.
	Removed bool `json:"removed"`

	// Suggestion is a command the user can run to compare the files manually.
	Suggestion string `json:"suggestion,omitempty"`

	// RemovedAtExit is true when the files left for a manual diff are deleted
	// when httpdiff exits.
	RemovedAtExit bool `json:"removed_at_exit"`

	// Diagnostics lists non-fatal problems met while exporting.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// BodyDiffDetail describes a body mismatch.
type BodyDiffDetail struct {
	Reason      BodyMismatchReason `json:"reason"`
	LeftLength  int                `json:"left_length"`
	RightLength int                `json:"right_length"`
	Stats       *DiffStats         `json:"stats,omitempty"`
	Export      *ExportResult      `json:"export,omitempty"`
}

// ComparisonResult is the verdict and structured differences of one run.
type ComparisonResult struct {
	// RunID identifies this run. It also prefixes exported file names.
	RunID string `json:"run_id"`

	Method   string `json:"method"`
	LeftURL  string `json:"left_url"`
	RightURL string `json:"right_url"`

	// LeftStatus and RightStatus are zero when the corresponding fetch failed.
	LeftStatus  int `json:"left_status"`
	RightStatus int `json:"right_status"`

	StatusMatch  bool         `json:"status_match"`
	HeaderDiffs  []HeaderDiff `json:"header_diffs,omitempty"`
	HeadersMatch bool         `json:"headers_match"`

	BodyMatch bool            `json:"body_match"`
	BodyDiff  *BodyDiffDetail `json:"body_diff,omitempty"`

	// Failures lists the sides whose fetch failed. When non-empty the
	// header and body comparisons were skipped.
	Failures []FetchFailure `json:"failures,omitempty"`

	// OverallSame is true only if status, headers and bodies all match.
	OverallSame bool `json:"overall_same"`

	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

// NewComparisonResult returns an empty result for the request.
func NewComparisonResult(runID string, req *ComparisonRequest) *ComparisonResult {
	return &ComparisonResult{
		RunID:     runID,
		Method:    req.Method,
		LeftURL:   req.Left(),
		RightURL:  req.Right(),
		StartedAt: time.Now(),
	}
}

// Failed reports whether at least one fetch failed.
func (r *ComparisonResult) Failed() bool {
	return len(r.Failures) > 0
}

// OneSidedHeaders returns the header diffs present on only one side.
func (r *ComparisonResult) OneSidedHeaders() []HeaderDiff {
	var out []HeaderDiff
	for _, d := range r.HeaderDiffs {
		if d.OneSided() {
			out = append(out, d)
		}
	}
	return out
}
