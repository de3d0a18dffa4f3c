package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nao1215/httpdiff/internal/config"
	"github.com/nao1215/httpdiff/internal/export"
	"github.com/nao1215/httpdiff/internal/fetch"
	hdlog "github.com/nao1215/httpdiff/internal/log"
	"github.com/nao1215/httpdiff/internal/model"
	"github.com/nao1215/httpdiff/internal/pipeline"
	"github.com/nao1215/httpdiff/internal/report"
)

// NewRootCmd creates the root command for httpdiff.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "httpdiff [flags] <left-url> <right-url>",
		Short: "Compare the HTTP responses of two URLs",
		Long: `httpdiff sends the same request to two URLs at the same time and reports
the differences between the responses: status code, headers and body.

Bodies are compared byte for byte. When they differ, both bodies are written
to temporary files and handed to the diff tool given with --diffapp, or the
file paths are printed so you can compare them yourself.

Exit status is 0 when the responses are identical, 1 when they differ,
2 on a usage or configuration error and 3 when a request failed.

Examples:
  # Compare two deployments
  httpdiff -X GET https://old.example/api/users https://new.example/api/users

  # Ignore volatile headers and open body differences in meld
  httpdiff -X GET -i Date,Server --diffapp meld https://a.example https://b.example

  # POST a body with extra headers
  httpdiff -X POST -d '{"id":1}' -H 'Content-Type: application/json' <left> <right>

  # Use a profile from .httpdiff
  httpdiff --profile staging <left> <right>

Configuration file (.httpdiff) example:
  defaults:
    method: GET
    ignore: [Date, Server]
  profiles:
    staging:
      insecure: true
      headers:
        Authorization: "Bearer token"`,
		Version:       getVersion(),
		Args:          urlArgs,
		RunE:          runCompareCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Request flags
	cmd.Flags().StringP("method", "X", "",
		"HTTP method sent to both URLs (required unless set in the configuration file)")
	cmd.Flags().StringP("body", "d", "",
		"Request body, sent only with POST, PUT and PATCH")
	cmd.Flags().String("host", "",
		"Host header sent to both URLs")
	cmd.Flags().StringP("agent", "A", "",
		"User-Agent header sent to both URLs")
	cmd.Flags().StringArrayP("header", "H", nil,
		"Request header \"Name: Value\" (repeatable)")
	cmd.Flags().String("headers", "",
		"File with one \"Name: Value\" header per line")

	// Comparison flags
	cmd.Flags().StringArrayP("ignore", "i", nil,
		"Response headers to ignore, comma separated (repeatable)")
	cmd.Flags().String("diffapp", "",
		"Diff tool run on the two bodies when they differ (e.g. meld, \"code --diff\")")
	cmd.Flags().Bool("keep", false,
		"Keep the temporary body files when no diff tool is set")

	// Connection flags
	cmd.Flags().BoolP("insecure", "k", false,
		"Skip TLS certificate verification")
	cmd.Flags().Duration("timeout", 0,
		"Overall timeout of each request (0 = none)")
	cmd.Flags().Duration("connect-timeout", config.DefaultConnectTimeout,
		"Timeout for connecting and the TLS handshake")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes (0 = no limit)")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy used for both requests (e.g. socks5://127.0.0.1:1080)")
	cmd.Flags().BoolP("follow-redirects", "L", false,
		"Follow redirects instead of comparing the 3xx responses")

	// Report flags
	cmd.Flags().Bool("mono", false,
		"Disable colors")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Configuration flags
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .httpdiff in current or home directory)")
	cmd.Flags().StringP("profile", "p", "",
		"Profile from the configuration file")
	cmd.Flags().String("log-format", config.DefaultLogFormat,
		"Diagnostic log format on stderr: text or json")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usage(err)
	})

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// urlArgs requires exactly two URL arguments.
func urlArgs(_ *cobra.Command, args []string) error {
	if len(args) != 2 {
		return usage(fmt.Errorf("%w: got %d", config.ErrInvalidURLCount, len(args)))
	}
	return nil
}

// Execute runs the root command with the process arguments and returns the
// exit code.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// execute runs the root command with explicit arguments and streams.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.InitDefaultHelpFlag()
	cmd.InitDefaultVersionFlag()

	cmd.SetArgs(normalizeLegacyFlags(cmd.Flags(), args))
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return exitCode(cmd.ExecuteContext(ctx), stderr)
}

// runCompareCmd executes the comparison.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return usage(err)
	}

	logger, err := hdlog.New(cmd.ErrOrStderr(), hdlog.Options{
		Format:  cfg.LogFormat,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return usage(err)
	}
	slog.SetDefault(logger)

	if err := cfg.ResolveHeaders(logger); err != nil {
		return usage(err)
	}

	req, err := cfg.Request()
	if err != nil {
		return usage(fmt.Errorf("configuration error: %w", err))
	}

	// Interrupt cancels in-flight requests and the diff tool; deferred
	// cleanup still runs.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCompare(ctx, cmd, cfg, req, logger)
}

// runCompare performs one comparison and writes the report.
func runCompare(ctx context.Context, cmd *cobra.Command, cfg *config.Config, req *model.ComparisonRequest, logger *slog.Logger) error {
	output, closeOutput, err := openOutput(cmd.OutOrStdout(), cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	janitor := export.NewJanitor()
	defer func() {
		if err := janitor.Cleanup(); err != nil {
			logger.Warn("failed to remove temporary files", "error", err)
		}
	}()

	writer, text := newReportWriter(cfg, cmd.OutOrStdout(), output)
	if text != nil {
		if _, err := text.WriteBanner(req.Method, req.Left(), req.Right()); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	// A structured report on stdout must stay parseable, so the diff tool
	// prints to stderr instead.
	toolStdout := cmd.OutOrStdout()
	if text == nil {
		toolStdout = cmd.ErrOrStderr()
	}
	exporter := export.NewExporter(
		export.WithTool(req.DiffTool),
		export.WithKeep(req.KeepTempFiles),
		export.WithJanitor(janitor),
		export.WithLogger(logger),
		export.WithStdio(cmd.InOrStdin(), toolStdout, cmd.ErrOrStderr()),
	)
	dispatcher := fetch.NewDispatcher(fetch.WithLogger(logger))

	runID := uuid.NewString()
	logger.Debug("starting comparison",
		"run_id", runID,
		"method", req.Method,
		"left", req.Left(),
		"right", req.Right(),
	)

	run := pipeline.NewRun(runID, req)
	p := pipeline.Comparison(dispatcher, exporter, pipeline.WithLogger(logger))
	if err := p.Execute(ctx, run); err != nil {
		return fmt.Errorf("comparison aborted: %w", err)
	}

	if _, err := writer.Write(run.Result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	switch {
	case run.Result.Failed():
		return errFetchFailed
	case !run.Result.OverallSame:
		return errResponsesDiffer
	default:
		return nil
	}
}

// openOutput returns the report destination: stdout, or the file at path
// with its parent directories created.
func openOutput(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may contain header values, so only the owner can read them.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // user-provided path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newReportWriter selects the report format. A JSON or Markdown report
// written to a file is paired with the text report on stdout. The returned
// TextWriter is nil when no text report is written.
func newReportWriter(cfg *config.Config, stdout, output io.Writer) (report.Writer, *report.TextWriter) {
	var structured report.Writer
	switch {
	case cfg.JSONReport:
		structured = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		structured = report.NewMarkdownWriter(output)
	}

	opts := []report.TextWriterOption{
		report.WithMono(cfg.Mono),
		report.WithVerbose(cfg.Verbose),
	}
	switch {
	case structured == nil && cfg.ReportFile != "":
		text := report.NewTextWriter(output, append(opts, report.WithColorMode(report.ColorNever))...)
		return text, text
	case structured == nil:
		text := report.NewTextWriter(output, opts...)
		return text, text
	case cfg.ReportFile != "":
		text := report.NewTextWriter(stdout, opts...)
		return report.NewMultiWriter(text, structured), text
	default:
		return structured, nil
	}
}
