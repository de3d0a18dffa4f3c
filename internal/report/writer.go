package report

import (
	"io"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/httpdiff/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.ComparisonResult) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(result *model.ComparisonResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// keepHint follows the manual diff suggestion when the files are temporary.
const keepHint = "These files are removed when httpdiff exits. Rerun with --keep to keep them."

var (
	printer   = message.NewPrinter(language.English)
	titleCase = cases.Title(language.English)
)

// formatBytes renders a byte count with thousands separators.
func formatBytes(n int) string {
	if n == 1 {
		return "1 byte"
	}
	return printer.Sprintf("%d bytes", n)
}

// formatCount renders an integer with thousands separators.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// sideLabel returns "Left" or "Right".
func sideLabel(side model.Side) string {
	return titleCase.String(string(side))
}

// formatElapsed rounds d for display.
func formatElapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

// verdict returns a one line summary of the result.
func verdict(result *model.ComparisonResult) string {
	switch {
	case result.Failed():
		return "Comparison incomplete: a request failed"
	case result.OverallSame:
		return "Responses are identical"
	default:
		return "Responses differ"
	}
}
