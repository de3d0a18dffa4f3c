package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// helperMarker tells TestHelperProcess that it was started as a diff tool.
const helperMarker = "httpdiff-helper"

// TestHelperProcess is not a real test. It is run as the diff tool by the
// exporter tests: os.Args ends with "-- httpdiff-helper <mode> <left> <right>".
func TestHelperProcess(t *testing.T) {
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 5 || args[1] != helperMarker {
		return
	}

	mode, left, right := args[2], args[3], args[4]
	l, lerr := os.ReadFile(left)
	r, rerr := os.ReadFile(right)
	if lerr != nil || rerr != nil {
		fmt.Fprintf(os.Stderr, "missing file: %v %v\n", lerr, rerr)
		os.Exit(9)
	}
	fmt.Fprintf(os.Stdout, "left=%s right=%s\n", l, r)

	switch mode {
	case "differ":
		os.Exit(1)
	default:
		os.Exit(0)
	}
}

func helperTool(mode string) string {
	return strings.Join([]string{os.Args[0], "-test.run=TestHelperProcess", "--", helperMarker, mode}, " ")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func assertGone(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed, stat err = %v", p, err)
		}
	}
}

func TestExporter_ToolSuccess(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	e := NewExporter(
		WithTool(helperTool("same")),
		WithTempDir(t.TempDir()),
		WithStdio(nil, &out, io.Discard),
		WithLogger(quietLogger()),
	)

	res := e.Export(context.Background(), "run1", "text/plain", []byte("hello"), []byte("hallo"))

	if !res.ToolRan || res.ExitCode != 0 {
		t.Errorf("expected tool to run with exit 0, got ran=%v code=%d diags=%v", res.ToolRan, res.ExitCode, res.Diagnostics)
	}
	if got := out.String(); !strings.Contains(got, "left=hello right=hallo") {
		t.Errorf("tool did not see both bodies: %q", got)
	}
	if !res.Removed {
		t.Error("expected Removed to be true")
	}
	assertGone(t, res.LeftPath, res.RightPath)
}

func TestExporter_ToolNonZeroExit(t *testing.T) {
	t.Parallel()

	e := NewExporter(
		WithTool(helperTool("differ")),
		WithTempDir(t.TempDir()),
		WithStdio(nil, io.Discard, io.Discard),
		WithLogger(quietLogger()),
	)

	res := e.Export(context.Background(), "run2", "", []byte("a"), []byte("b"))

	if !res.ToolRan || res.ExitCode != 1 {
		t.Errorf("expected exit code 1, got ran=%v code=%d", res.ToolRan, res.ExitCode)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("non-zero exit is not a diagnostic: %v", res.Diagnostics)
	}
	assertGone(t, res.LeftPath, res.RightPath)
}

func TestExporter_ToolSpawnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := NewExporter(
		WithTool(filepath.Join(dir, "no-such-diff-tool")),
		WithTempDir(dir),
		WithStdio(nil, io.Discard, io.Discard),
		WithLogger(quietLogger()),
	)

	res := e.Export(context.Background(), "run3", "application/json", []byte("{}"), []byte("[]"))

	if res.ToolRan {
		t.Error("tool must not be reported as run")
	}
	if len(res.Diagnostics) == 0 {
		t.Error("expected a diagnostic for the spawn failure")
	}
	assertGone(t, res.LeftPath, res.RightPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not empty: %v", entries)
	}
}

func TestExporter_NoTool(t *testing.T) {
	t.Parallel()

	t.Run("files are left and tracked", func(t *testing.T) {
		t.Parallel()
		j := NewJanitor()
		e := NewExporter(WithTempDir(t.TempDir()), WithJanitor(j), WithLogger(quietLogger()))

		res := e.Export(context.Background(), "run4", "application/json; charset=utf-8", []byte(`{"a":1}`), []byte(`{"a":2}`))

		if res.ToolRan || res.Removed {
			t.Errorf("unexpected result: %+v", res)
		}
		if !strings.HasSuffix(res.LeftPath, ".json") || !strings.HasSuffix(res.RightPath, ".json") {
			t.Errorf("expected .json files: %s %s", res.LeftPath, res.RightPath)
		}
		if !strings.Contains(filepath.Base(res.LeftPath), "httpdiff-run4-left-") ||
			!strings.Contains(filepath.Base(res.RightPath), "httpdiff-run4-right-") {
			t.Errorf("unexpected names: %s %s", res.LeftPath, res.RightPath)
		}
		if res.Suggestion != "diff "+res.LeftPath+" "+res.RightPath {
			t.Errorf("Suggestion = %q", res.Suggestion)
		}
		if !res.RemovedAtExit {
			t.Error("tracked files must be reported as removed at exit")
		}

		got, err := os.ReadFile(res.LeftPath)
		if err != nil || string(got) != `{"a":1}` {
			t.Errorf("left file = %q, %v", got, err)
		}

		if n := len(j.Tracked()); n != 2 {
			t.Fatalf("expected 2 tracked files, got %d", n)
		}
		if err := j.Cleanup(); err != nil {
			t.Fatalf("cleanup: %v", err)
		}
		assertGone(t, res.LeftPath, res.RightPath)
	})

	t.Run("keep skips the janitor", func(t *testing.T) {
		t.Parallel()
		j := NewJanitor()
		e := NewExporter(WithTempDir(t.TempDir()), WithJanitor(j), WithKeep(true), WithLogger(quietLogger()))

		res := e.Export(context.Background(), "run5", "", []byte("a"), []byte("b"))
		if len(j.Tracked()) != 0 {
			t.Error("files must not be tracked with keep")
		}
		if res.RemovedAtExit {
			t.Error("kept files must not be reported as removed at exit")
		}
		if _, err := os.Stat(res.LeftPath); err != nil {
			t.Errorf("left file missing: %v", err)
		}
	})

	t.Run("unique names per export", func(t *testing.T) {
		t.Parallel()
		e := NewExporter(WithTempDir(t.TempDir()), WithLogger(quietLogger()))
		a := e.Export(context.Background(), "same", "", []byte("a"), []byte("b"))
		b := e.Export(context.Background(), "same", "", []byte("a"), []byte("b"))
		if a.LeftPath == b.LeftPath || a.RightPath == b.RightPath {
			t.Error("temp file names must be unique")
		}
	})
}

func TestExporter_WriteFailure(t *testing.T) {
	t.Parallel()

	e := NewExporter(
		WithTempDir(filepath.Join(t.TempDir(), "missing")),
		WithLogger(quietLogger()),
	)
	res := e.Export(context.Background(), "run6", "", []byte("a"), []byte("b"))

	if len(res.Diagnostics) == 0 {
		t.Error("expected a diagnostic")
	}
	if res.LeftPath != "" || res.RightPath != "" {
		t.Errorf("no paths expected: %+v", res)
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                         ".txt",
		"application/json":         ".json",
		"application/problem+json": ".json",
		"text/html; charset=utf-8": ".html",
		"application/atom+xml":     ".xml",
		"text/plain":               ".txt",
		"text/css":                 ".css",
		"image/png":                ".bin",
		"application/octet-stream": ".bin",
		"text/javascript":          ".js",
	}
	for ct, want := range tests {
		if got := Extension(ct); got != want {
			t.Errorf("Extension(%q) = %q, want %q", ct, got, want)
		}
	}
}
