package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"os/exec"
	"strings"

	"github.com/nao1215/httpdiff/internal/model"
)

// Exporter writes body pairs to temporary files and runs the diff tool.
type Exporter struct {
	// tool is the diff command. Extra words are passed as leading arguments.
	tool string

	// tempDir is where body files are created. Empty means os.TempDir.
	tempDir string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger *slog.Logger

	// janitor receives the files left behind when no tool is configured.
	janitor *Janitor

	// keep disables registration with the janitor.
	keep bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithTool sets the diff command, for example "meld" or "code --diff".
func WithTool(tool string) Option {
	return func(e *Exporter) {
		e.tool = strings.TrimSpace(tool)
	}
}

// WithTempDir sets the directory for body files.
func WithTempDir(dir string) Option {
	return func(e *Exporter) {
		e.tempDir = dir
	}
}

// WithStdio sets the streams inherited by the diff tool.
func WithStdio(in io.Reader, out, errOut io.Writer) Option {
	return func(e *Exporter) {
		e.stdin = in
		e.stdout = out
		e.stderr = errOut
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithJanitor sets the Janitor that removes files left for the user.
func WithJanitor(j *Janitor) Option {
	return func(e *Exporter) {
		e.janitor = j
	}
}

// WithKeep keeps files left for the user on disk after the process exits.
func WithKeep(keep bool) Option {
	return func(e *Exporter) {
		e.keep = keep
	}
}

// NewExporter creates an Exporter. The diff tool inherits the process's
// standard streams unless WithStdio is given.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Export writes both bodies to fresh temporary files named after runID and
// either runs the diff tool on them or leaves them for the user.
// It never returns an error; failures are recorded in Diagnostics.
func (e *Exporter) Export(ctx context.Context, runID, contentType string, left, right []byte) *model.ExportResult {
	res := &model.ExportResult{Tool: e.tool}
	ext := Extension(contentType)

	leftPath, err := e.writeTemp(runID, model.SideLeft, ext, left)
	if err != nil {
		e.diagnose(res, "write left body", err)
		return res
	}
	rightPath, err := e.writeTemp(runID, model.SideRight, ext, right)
	if err != nil {
		removeFiles(leftPath)
		e.diagnose(res, "write right body", err)
		return res
	}
	res.LeftPath, res.RightPath = leftPath, rightPath

	if e.tool == "" {
		res.Suggestion = fmt.Sprintf("diff %s %s", leftPath, rightPath)
		if e.janitor != nil && !e.keep {
			e.janitor.Track(leftPath, rightPath)
			res.RemovedAtExit = true
		}
		e.logger.Debug("body files left for manual diff", "left", leftPath, "right", rightPath)
		return res
	}

	defer func() {
		if err := removeFiles(leftPath, rightPath); err != nil {
			e.diagnose(res, "remove body files", err)
			return
		}
		res.Removed = true
	}()

	code, err := e.runTool(ctx, leftPath, rightPath)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ToolRan = true
			res.ExitCode = exitErr.ExitCode()
			e.logger.Debug("diff tool exited with non-zero status", "tool", e.tool, "exit_code", res.ExitCode)
			return res
		}
		e.diagnose(res, "run diff tool", err)
		return res
	}
	res.ToolRan = true
	res.ExitCode = code
	return res
}

// runTool runs the diff tool and waits for it to exit.
func (e *Exporter) runTool(ctx context.Context, leftPath, rightPath string) (int, error) {
	fields := strings.Fields(e.tool)
	if len(fields) == 0 {
		return 0, ErrEmptyTool
	}

	args := append(fields[1:len(fields):len(fields)], leftPath, rightPath)
	cmd := exec.CommandContext(ctx, fields[0], args...) //nolint:gosec // the tool is chosen by the user
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	e.logger.Debug("running diff tool", "command", fields[0], "args", args)

	if err := cmd.Run(); err != nil {
		return -1, err
	}
	return cmd.ProcessState.ExitCode(), nil
}

// writeTemp creates a uniquely named file holding body.
func (e *Exporter) writeTemp(runID string, side model.Side, ext string, body []byte) (string, error) {
	pattern := fmt.Sprintf("httpdiff-%s-%s-*%s", runID, side, ext)
	f, err := os.CreateTemp(e.tempDir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	_, werr := f.Write(body)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(f.Name()) //nolint:errcheck // the write already failed
		return "", fmt.Errorf("write %s: %w", f.Name(), err)
	}
	return f.Name(), nil
}

func (e *Exporter) diagnose(res *model.ExportResult, what string, err error) {
	e.logger.Warn("diff export problem", "step", what, "error", err)
	res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("%s: %v", what, err))
}

func removeFiles(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Extension returns a file extension for a Content-Type value so that diff
// tools can pick a syntax mode. A missing or malformed type gets ".txt" and
// an unrecognized non-text type gets ".bin".
func Extension(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".txt"
	}

	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return ".json"
	case mediaType == "text/html", mediaType == "application/xhtml+xml":
		return ".html"
	case mediaType == "application/xml", mediaType == "text/xml", strings.HasSuffix(mediaType, "+xml"):
		return ".xml"
	case mediaType == "text/css":
		return ".css"
	case mediaType == "application/javascript", mediaType == "text/javascript":
		return ".js"
	case mediaType == "text/csv":
		return ".csv"
	case mediaType == "application/yaml", mediaType == "application/x-yaml", mediaType == "text/yaml":
		return ".yaml"
	case strings.HasPrefix(mediaType, "text/"):
		return ".txt"
	default:
		return ".bin"
	}
}
