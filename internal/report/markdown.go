package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/httpdiff/internal/model"
)

// MarkdownWriter outputs results as a Markdown document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.ComparisonResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)

	if result.Failed() {
		w.writeFailures(md, result)
	} else {
		w.writeStatus(md, result)
		w.writeHeaders(md, result)
		w.writeBody(md, result)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title, the run table and the verdict alert.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.ComparisonResult) {
	md.H1("HTTP Diff Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + result.RunID + "`"},
			{"Method", result.Method},
			{"Left URL", "`" + result.LeftURL + "`"},
			{"Right URL", "`" + result.RightURL + "`"},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", formatElapsed(result.Elapsed)},
		},
	})
	md.PlainText("")

	switch {
	case result.Failed():
		md.Cautionf("%s.", verdict(result))
	case result.OverallSame:
		md.Tip(verdict(result) + ".")
	default:
		md.Warningf("%s.", verdict(result))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, result *model.ComparisonResult) {
	md.H2("Failed Requests")
	md.PlainText("")

	rows := make([][]string, 0, len(result.Failures))
	for _, f := range result.Failures {
		rows = append(rows, []string{sideLabel(f.Side), "`" + f.URL + "`", escapeCell(f.Reason)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Side", "URL", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeStatus(md *markdown.Markdown, result *model.ComparisonResult) {
	md.H2("Status Code")
	md.PlainText("")

	if result.StatusMatch {
		md.PlainTextf("Status codes identical: **%d**", result.LeftStatus)
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Side", "Status"},
		Rows: [][]string{
			{sideLabel(model.SideLeft), strconv.Itoa(result.LeftStatus)},
			{sideLabel(model.SideRight), strconv.Itoa(result.RightStatus)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeHeaders(md *markdown.Markdown, result *model.ComparisonResult) {
	md.H2("Headers")
	md.PlainText("")

	if result.HeadersMatch {
		md.PlainText("Headers identical.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(result.HeaderDiffs))
	for _, d := range result.HeaderDiffs {
		rows = append(rows, []string{
			"`" + d.Name + "`",
			string(d.Kind),
			headerCell(d.Left),
			headerCell(d.Right),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Header", "Difference", "Left", "Right"},
		Rows:   rows,
	})
	md.PlainText("")

	if n := len(result.OneSidedHeaders()); n > 0 {
		md.PlainText(printer.Sprintf("%d of %d differing headers are sent by one side only.", n, len(result.HeaderDiffs)))
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeBody(md *markdown.Markdown, result *model.ComparisonResult) {
	md.H2("Body")
	md.PlainText("")

	if result.BodyMatch || result.BodyDiff == nil {
		md.PlainText("Bodies identical.")
		md.PlainText("")
		return
	}

	bd := result.BodyDiff
	rows := [][]string{
		{"Reason", string(bd.Reason)},
		{"Left length", formatBytes(bd.LeftLength)},
		{"Right length", formatBytes(bd.RightLength)},
	}
	if bd.Stats != nil {
		rows = append(rows, []string{"First difference", "byte " + formatCount(bd.Stats.FirstDifference)})
		if bd.Stats.Hunks > 0 {
			rows = append(rows, []string{"Changed regions", formatCount(bd.Stats.Hunks)})
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if bd.Stats != nil && bd.Stats.Hunks > 0 {
		w.writePieChart(md, bd.Stats)
	}
	if bd.Export != nil {
		w.writeExport(md, bd.Export)
	}
}

// writePieChart writes a mermaid pie chart of unchanged, inserted and
// deleted characters.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.DiffStats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Body Characters"),
		piechart.WithShowData(true),
	)

	if s.Equal > 0 {
		chart.LabelAndIntValue("Unchanged", uint64(s.Equal))
	}
	if s.Inserted > 0 {
		chart.LabelAndIntValue("Inserted", uint64(s.Inserted))
	}
	if s.Deleted > 0 {
		chart.LabelAndIntValue("Deleted", uint64(s.Deleted))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeExport(md *markdown.Markdown, e *model.ExportResult) {
	switch {
	case e.ToolRan:
		md.PlainTextf("Diff tool `%s` exited with code %d.", e.Tool, e.ExitCode)
		md.PlainText("")
	case e.Tool == "" && e.LeftPath != "":
		md.BulletList("Left body: `"+e.LeftPath+"`", "Right body: `"+e.RightPath+"`")
		md.PlainText("")
		if e.Suggestion != "" {
			md.CodeBlocks(markdown.SyntaxHighlight("shell"), e.Suggestion)
			md.PlainText("")
		}
		if e.RemovedAtExit {
			md.Note(keepHint)
			md.PlainText("")
		}
	}

	if len(e.Diagnostics) > 0 {
		md.Details("Diff export problems", strings.Join(e.Diagnostics, "\n"))
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [httpdiff](https://github.com/nao1215/httpdiff)*")
}

// headerCell renders header values for a table cell.
func headerCell(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return escapeCell(truncateString(strings.Join(values, ", "), 80))
}

// escapeCell makes s safe to place in a table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// truncateString truncates a string to maxLen runes with ellipsis.
// Multi-byte characters are never split.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
