// Package report renders comparison results.
//
// Three formats are available:
//   - TextWriter: the terminal report, colored unless mono output is asked for
//   - JSONWriter: machine readable output for scripts and CI
//   - MarkdownWriter: a document for pull requests and issue trackers
//
// Response bodies are never printed. A body mismatch is reported by its
// kind, the body lengths, diff statistics and the exported file paths.
package report
