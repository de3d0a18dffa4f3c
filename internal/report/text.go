package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/nao1215/httpdiff/internal/model"
)

// ColorMode selects when the text report uses ANSI colors.
type ColorMode int

const (
	// ColorAuto colors output when it goes to a terminal.
	ColorAuto ColorMode = iota
	// ColorAlways always emits ANSI colors.
	ColorAlways
	// ColorNever never emits ANSI colors.
	ColorNever
)

const indent = "    "

// palette holds the colors of the text report. The left side is red, the
// right side green, labels yellow, status codes magenta and header names cyan.
type palette struct {
	left   *color.Color
	right  *color.Color
	label  *color.Color
	status *color.Color
	header *color.Color
}

func newPalette(mode ColorMode) palette {
	mk := func(attr color.Attribute) *color.Color {
		c := color.New(attr)
		switch mode {
		case ColorAlways:
			c.EnableColor()
		case ColorNever:
			c.DisableColor()
		case ColorAuto:
		}
		return c
	}
	return palette{
		left:   mk(color.FgRed),
		right:  mk(color.FgGreen),
		label:  mk(color.FgYellow),
		status: mk(color.FgMagenta),
		header: mk(color.FgCyan),
	}
}

func (p palette) side(side model.Side) *color.Color {
	if side == model.SideRight {
		return p.right
	}
	return p.left
}

// TextWriter outputs the human readable comparison report.
type TextWriter struct {
	baseWriter

	colors palette

	// verbose adds diff statistics and timing.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithColorMode sets when colors are used.
func WithColorMode(mode ColorMode) TextWriterOption {
	return func(w *TextWriter) {
		w.colors = newPalette(mode)
	}
}

// WithMono disables colors when mono is true.
func WithMono(mono bool) TextWriterOption {
	return func(w *TextWriter) {
		if mono {
			w.colors = newPalette(ColorNever)
		}
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		colors:     newPalette(ColorAuto),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteBanner prints the lines shown before the requests are sent.
func (w *TextWriter) WriteBanner(method, left, right string) (int, error) {
	var sb strings.Builder
	c := w.colors

	sb.WriteString(c.label.Sprint("Comparing ") + c.status.Sprint(method) + c.label.Sprint(" requests:") + "\n")
	sb.WriteString(indent + c.left.Sprint(left) + "\n")
	sb.WriteString(indent + c.right.Sprint(right) + "\n")
	sb.WriteString("\n")
	sb.WriteString(c.label.Sprint("Making requests...") + "\n")
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// Write outputs the status, header and body sections of result.
func (w *TextWriter) Write(result *model.ComparisonResult) (int, error) {
	var sb strings.Builder

	if result.Failed() {
		w.writeFailures(&sb, result)
	} else {
		w.writeStatus(&sb, result)
		w.writeHeaders(&sb, result)
		w.writeBody(&sb, result)
	}
	w.writeFooter(&sb, result)

	return io.WriteString(w.output, sb.String())
}

func (w *TextWriter) writeFailures(sb *strings.Builder, result *model.ComparisonResult) {
	c := w.colors
	for _, f := range result.Failures {
		sb.WriteString(c.label.Sprint("Something went wrong during request ") +
			c.side(f.Side).Sprint(f.URL) + "\n")
		sb.WriteString(indent + c.label.Sprint("possible reason: ") + f.Reason + "\n")
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeStatus(sb *strings.Builder, result *model.ComparisonResult) {
	c := w.colors
	if !result.StatusMatch {
		sb.WriteString(c.label.Sprint("Different status codes:") + "\n")
		sb.WriteString(indent + c.left.Sprint(result.LeftStatus) + "\n")
		sb.WriteString(indent + c.right.Sprint(result.RightStatus) + "\n")
		sb.WriteString("\n")
		return
	}
	sb.WriteString(c.label.Sprint("Status codes identical: ") + c.status.Sprint(result.LeftStatus) + "\n")
	sb.WriteString("\n")
}

func (w *TextWriter) writeHeaders(sb *strings.Builder, result *model.ComparisonResult) {
	c := w.colors

	for _, d := range result.HeaderDiffs {
		switch d.Kind {
		case model.HeaderDifferent:
			sb.WriteString(c.label.Sprint("Different ") + c.header.Sprint(d.Name) + c.label.Sprint(" Header:") + "\n")
			for i := 0; i < max(len(d.Left), len(d.Right)); i++ {
				if i < len(d.Left) {
					sb.WriteString(indent + c.left.Sprint(d.Left[i]) + "\n")
				}
				if i < len(d.Right) {
					sb.WriteString(indent + c.right.Sprint(d.Right[i]) + "\n")
				}
			}
		case model.HeaderLeftOnly:
			sb.WriteString(c.label.Sprint("Header ") + c.header.Sprint(d.Name) + c.label.Sprint(" only in left response:") + "\n")
			sb.WriteString(indent + c.left.Sprint(strings.Join(d.Left, ", ")) + "\n")
		case model.HeaderRightOnly:
			sb.WriteString(c.label.Sprint("Header ") + c.header.Sprint(d.Name) + c.label.Sprint(" only in right response:") + "\n")
			sb.WriteString(indent + c.right.Sprint(strings.Join(d.Right, ", ")) + "\n")
		}
		sb.WriteString("\n")
	}

	if result.HeadersMatch {
		sb.WriteString(c.right.Sprint("Headers identical") + "\n")
		sb.WriteString("\n")
	}
}

func (w *TextWriter) writeBody(sb *strings.Builder, result *model.ComparisonResult) {
	c := w.colors

	if result.BodyMatch || result.BodyDiff == nil {
		sb.WriteString(c.label.Sprint("Bodies identical") + "\n")
		sb.WriteString("\n")
		return
	}

	bd := result.BodyDiff
	switch bd.Reason {
	case model.BodyDifferentLength:
		sb.WriteString(c.label.Sprint("Bodies are different (different length)") + "\n")
		sb.WriteString(indent + c.left.Sprint(formatBytes(bd.LeftLength)) + "\n")
		sb.WriteString(indent + c.right.Sprint(formatBytes(bd.RightLength)) + "\n")
	case model.BodyDifferentContent:
		sb.WriteString(c.label.Sprint("Bodies are different (same length, different content)") + "\n")
	}

	if bd.Stats != nil && w.verbose {
		s := bd.Stats
		sb.WriteString(indent + fmt.Sprintf("first difference at byte %s", formatCount(s.FirstDifference)) + "\n")
		if s.Hunks > 0 {
			sb.WriteString(indent + fmt.Sprintf("%s changed region(s): %s inserted, %s deleted, %s unchanged characters",
				formatCount(s.Hunks), formatCount(s.Inserted), formatCount(s.Deleted), formatCount(s.Equal)) + "\n")
		}
	}

	if bd.Export != nil {
		w.writeExport(sb, bd.Export)
	}
	sb.WriteString("\n")
}

func (w *TextWriter) writeExport(sb *strings.Builder, e *model.ExportResult) {
	c := w.colors

	switch {
	case e.ToolRan:
		sb.WriteString(c.label.Sprint("Diff tool ") + e.Tool + c.label.Sprint(" exited with code ") + fmt.Sprint(e.ExitCode) + "\n")
	case e.Tool == "" && e.LeftPath != "":
		sb.WriteString(c.label.Sprint("Bodies written to:") + "\n")
		sb.WriteString(indent + c.left.Sprint(e.LeftPath) + "\n")
		sb.WriteString(indent + c.right.Sprint(e.RightPath) + "\n")
		if e.Suggestion != "" {
			sb.WriteString(c.label.Sprint("Compare them with: ") + e.Suggestion + "\n")
		}
		if e.RemovedAtExit {
			sb.WriteString(indent + keepHint + "\n")
		}
	}

	for _, d := range e.Diagnostics {
		sb.WriteString(c.label.Sprint("Diff export problem: ") + d + "\n")
	}
}

func (w *TextWriter) writeFooter(sb *strings.Builder, result *model.ComparisonResult) {
	c := w.colors
	line := verdict(result)
	if result.OverallSame {
		sb.WriteString(c.right.Sprint(line))
	} else {
		sb.WriteString(c.left.Sprint(line))
	}
	if w.verbose {
		sb.WriteString(" (" + formatElapsed(result.Elapsed) + ", run " + result.RunID + ")")
	}
	sb.WriteString("\n")
}
