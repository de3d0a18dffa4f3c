package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/httpdiff/internal/report"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if !strings.HasPrefix(cmd.Use, "httpdiff") {
			t.Errorf("expected use to start with 'httpdiff', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("has request flags with shorthands", func(t *testing.T) {
		t.Parallel()
		want := map[string]string{
			"method":   "X",
			"body":     "d",
			"agent":    "A",
			"ignore":   "i",
			"header":   "H",
			"insecure": "k",
		}
		for name, short := range want {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				t.Errorf("expected flag --%s", name)
				continue
			}
			if flag.Shorthand != short {
				t.Errorf("flag --%s: expected shorthand %q, got %q", name, short, flag.Shorthand)
			}
		}
		for _, name := range []string{"host", "headers", "diffapp", "mono", "proxy", "timeout", "connect-timeout", "max-body-size", "keep"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag --%s", name)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		hasInit := false
		hasVersion := false
		for _, sub := range cmd.Commands() {
			switch sub.Use {
			case "init":
				hasInit = true
			case "version":
				hasVersion = true
			}
		}
		if !hasInit || !hasVersion {
			t.Errorf("expected init and version subcommands, got %v", cmd.Commands())
		}
	})
}

func TestNormalizeLegacyFlags(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.InitDefaultHelpFlag()
	cmd.InitDefaultVersionFlag()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "single dash long flags",
			args: []string{"-method", "GET", "-ignore=Date", "-mono"},
			want: []string{"--method", "GET", "--ignore=Date", "--mono"},
		},
		{
			name: "shorthands untouched",
			args: []string{"-X", "GET", "-k", "-XPOST", "-iDate"},
			want: []string{"-X", "GET", "-k", "-XPOST", "-iDate"},
		},
		{
			name: "double dash untouched",
			args: []string{"--method", "GET"},
			want: []string{"--method", "GET"},
		},
		{
			name: "persistent and help flags",
			args: []string{"-verbose", "-help"},
			want: []string{"--verbose", "--help"},
		},
		{
			name: "unknown words untouched",
			args: []string{"-unknown", "http://a.example"},
			want: []string{"-unknown", "http://a.example"},
		},
		{
			name: "values are never rewritten",
			args: []string{"-d", "-json", "-method", "GET"},
			want: []string{"-d", "-json", "--method", "GET"},
		},
		{
			name: "long flag value",
			args: []string{"-body", "-mono", "-json"},
			want: []string{"--body", "-mono", "--json"},
		},
		{
			name: "inline value does not consume the next arg",
			args: []string{"-body=x", "-json"},
			want: []string{"--body=x", "--json"},
		},
		{
			name: "shorthand cluster ending in a value flag",
			args: []string{"-kd", "-mono", "-json"},
			want: []string{"-kd", "-mono", "--json"},
		},
		{
			name: "nothing after terminator",
			args: []string{"-method", "GET", "--", "-mono"},
			want: []string{"--method", "GET", "--", "-mono"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeLegacyFlags(cmd.Flags(), tt.args)
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		want       int
		wantStderr string
	}{
		{name: "nil", err: nil, want: exitIdentical},
		{name: "differ", err: errResponsesDiffer, want: exitDifferent},
		{name: "fetch failure", err: errFetchFailed, want: exitFetchFailure},
		{name: "usage", err: usage(errors.New("bad flag")), want: exitUsage, wantStderr: "bad flag"},
		{name: "interrupted", err: fmt.Errorf("comparison aborted: %w", context.Canceled), want: exitInterrupted, wantStderr: "interrupted"},
		{name: "other", err: errors.New("disk full"), want: exitUsage, wantStderr: "disk full"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var stderr bytes.Buffer
			if got := exitCode(tt.err, &stderr); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
			if tt.wantStderr == "" && stderr.Len() != 0 {
				t.Errorf("expected no output, got %q", stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("expected stderr to contain %q, got %q", tt.wantStderr, stderr.String())
			}
		})
	}

	if usage(nil) != nil {
		t.Error("expected usage(nil) to be nil")
	}
}

// emptyConfig writes an empty configuration file so that tests never pick
// up a .httpdiff from the machine running them.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("defaults: {}\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func textServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

type runOutput struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) runOutput {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	return runOutput{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestCompareCommand(t *testing.T) {
	t.Parallel()

	t.Run("identical responses exit 0", func(t *testing.T) {
		t.Parallel()
		left := textServer(t, http.StatusOK, "hello")
		right := textServer(t, http.StatusOK, "hello")

		out := runCLI(t, "--config", emptyConfig(t), "-X", "GET", "-i", "Date", "--mono", left.URL, right.URL)

		if out.code != exitIdentical {
			t.Fatalf("expected exit 0, got %d\nstdout: %s\nstderr: %s", out.code, out.stdout, out.stderr)
		}
		for _, want := range []string{"Comparing GET requests:", "Status codes identical: 200", "Headers identical", "Bodies identical", "Responses are identical"} {
			if !strings.Contains(out.stdout, want) {
				t.Errorf("expected stdout to contain %q, got:\n%s", want, out.stdout)
			}
		}
	})

	t.Run("different status exits 1", func(t *testing.T) {
		t.Parallel()
		left := textServer(t, http.StatusOK, "x")
		right := textServer(t, http.StatusNotFound, "x")

		out := runCLI(t, "--config", emptyConfig(t), "-X", "GET", "-i", "Date", "--mono", left.URL, right.URL)

		if out.code != exitDifferent {
			t.Fatalf("expected exit 1, got %d\nstderr: %s", out.code, out.stderr)
		}
		if !strings.Contains(out.stdout, "Different status codes:\n    200\n    404") {
			t.Errorf("unexpected status section:\n%s", out.stdout)
		}
	})

	t.Run("different body writes files and removes them", func(t *testing.T) {
		t.Parallel()
		left := textServer(t, http.StatusOK, "hello")
		right := textServer(t, http.StatusOK, "hallo")

		out := runCLI(t, "--config", emptyConfig(t), "-X", "GET", "-i", "Date", "--mono", left.URL, right.URL)

		if out.code != exitDifferent {
			t.Fatalf("expected exit 1, got %d\nstderr: %s", out.code, out.stderr)
		}
		if !strings.Contains(out.stdout, "Bodies are different (same length, different content)") {
			t.Errorf("expected different content, got:\n%s", out.stdout)
		}
		if !strings.Contains(out.stdout, "Compare them with: diff ") {
			t.Errorf("expected diff suggestion, got:\n%s", out.stdout)
		}
		for _, line := range strings.Split(out.stdout, "\n") {
			path := strings.TrimSpace(line)
			if strings.Contains(path, "httpdiff-") && strings.HasSuffix(path, ".txt") && !strings.Contains(path, " ") {
				if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
					t.Errorf("expected %s to be removed at exit, stat error: %v", path, err)
				}
			}
		}
	})

	t.Run("failed request exits 3", func(t *testing.T) {
		t.Parallel()
		left := textServer(t, http.StatusOK, "x")
		closed := httptest.NewServer(http.NotFoundHandler())
		closedURL := closed.URL
		closed.Close()

		out := runCLI(t, "--config", emptyConfig(t), "-X", "GET", "--mono", left.URL, closedURL)

		if out.code != exitFetchFailure {
			t.Fatalf("expected exit 3, got %d\nstderr: %s", out.code, out.stderr)
		}
		if !strings.Contains(out.stdout, "Something went wrong during request "+closedURL) {
			t.Errorf("expected failure report, got:\n%s", out.stdout)
		}
	})

	t.Run("legacy flags are accepted", func(t *testing.T) {
		t.Parallel()
		left := textServer(t, http.StatusOK, "same")
		right := textServer(t, http.StatusOK, "same")

		out := runCLI(t, "-config", emptyConfig(t), "-method", "GET", "-ignore", "Date", "-mono", left.URL, right.URL)

		if out.code != exitIdentical {
			t.Fatalf("expected exit 0, got %d\nstdout: %s\nstderr: %s", out.code, out.stdout, out.stderr)
		}
	})

	t.Run("json report", func(t *testing.T) {
		t.Parallel()
		left := textServer(t, http.StatusOK, "a")
		right := textServer(t, http.StatusCreated, "a")

		out := runCLI(t, "--config", emptyConfig(t), "-X", "GET", "-i", "Date", "--json", left.URL, right.URL)

		if out.code != exitDifferent {
			t.Fatalf("expected exit 1, got %d\nstderr: %s", out.code, out.stderr)
		}
		if strings.Contains(out.stdout, "Comparing GET") {
			t.Error("expected no banner in JSON output")
		}

		var rep report.JSONReport
		if err := json.Unmarshal([]byte(out.stdout), &rep); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out.stdout)
		}
		if rep.Result.LeftStatus != 200 || rep.Result.RightStatus != 201 || rep.Result.StatusMatch {
			t.Errorf("unexpected statuses in %+v", rep.Result)
		}
		if rep.Result.RunID == "" {
			t.Error("expected run ID")
		}
	})

	t.Run("markdown report to file", func(t *testing.T) {
		t.Parallel()
		left := textServer(t, http.StatusOK, "a")
		right := textServer(t, http.StatusOK, "a")
		path := filepath.Join(t.TempDir(), "reports", "diff.md")

		out := runCLI(t, "--config", emptyConfig(t), "-X", "GET", "-i", "Date", "--markdown", "-o", path, left.URL, right.URL)

		if out.code != exitIdentical {
			t.Fatalf("expected exit 0, got %d\nstderr: %s", out.code, out.stderr)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# HTTP Diff Report") {
			t.Errorf("expected markdown heading, got:\n%s", content)
		}
		if !strings.Contains(out.stdout, "Comparing GET") || !strings.Contains(out.stdout, "Bodies identical") {
			t.Errorf("expected text report on stdout, got %q", out.stdout)
		}
		if strings.Contains(out.stdout, "# HTTP Diff Report") {
			t.Error("markdown must only go to the file")
		}
	})

	t.Run("json report to file keeps text on stdout", func(t *testing.T) {
		t.Parallel()
		left := textServer(t, http.StatusOK, "a")
		right := textServer(t, http.StatusCreated, "a")
		path := filepath.Join(t.TempDir(), "diff.json")

		out := runCLI(t, "--config", emptyConfig(t), "-X", "GET", "-i", "Date", "--mono", "--json", "-o", path, left.URL, right.URL)

		if out.code != exitDifferent {
			t.Fatalf("expected exit 1, got %d\nstderr: %s", out.code, out.stderr)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var rep report.JSONReport
		if err := json.Unmarshal(content, &rep); err != nil {
			t.Fatalf("invalid JSON in file: %v\n%s", err, content)
		}
		if rep.Result.RightStatus != http.StatusCreated {
			t.Errorf("RightStatus = %d", rep.Result.RightStatus)
		}
		if !strings.Contains(out.stdout, "Comparing GET") || !strings.Contains(out.stdout, "Responses differ") {
			t.Errorf("expected text report on stdout, got %q", out.stdout)
		}
	})

	t.Run("diff tool output does not corrupt json on stdout", func(t *testing.T) {
		t.Parallel()
		if _, err := exec.LookPath("echo"); err != nil {
			t.Skip("echo not available")
		}
		left := textServer(t, http.StatusOK, "hello")
		right := textServer(t, http.StatusOK, "hallo")

		out := runCLI(t, "--config", emptyConfig(t), "-X", "GET", "-i", "Date", "--json", "--diffapp", "echo", left.URL, right.URL)

		if out.code != exitDifferent {
			t.Fatalf("expected exit 1, got %d\nstderr: %s", out.code, out.stderr)
		}
		var rep report.JSONReport
		if err := json.Unmarshal([]byte(out.stdout), &rep); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out.stdout)
		}
		if rep.Result.BodyDiff == nil || rep.Result.BodyDiff.Export == nil || !rep.Result.BodyDiff.Export.ToolRan {
			t.Fatalf("expected the diff tool to run, got %+v", rep.Result.BodyDiff)
		}
		if !strings.Contains(out.stderr, "httpdiff-") {
			t.Errorf("expected the tool output on stderr, got %q", out.stderr)
		}
	})

	t.Run("profile headers are sent", func(t *testing.T) {
		t.Parallel()
		echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(r.Method + " " + r.Header.Get("X-Env") + " " + r.Header.Get("X-Flag")))
		})
		left := httptest.NewServer(echo)
		t.Cleanup(left.Close)
		right := httptest.NewServer(echo)
		t.Cleanup(right.Close)

		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		content := `defaults:
  method: GET
  ignore: [Date]
profiles:
  staging:
    method: POST
    headers:
      X-Env: staging
`
		if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		out := runCLI(t, "--config", cfgPath, "--profile", "staging", "-H", "X-Flag: on", "-v", "--mono", left.URL, right.URL)

		if out.code != exitIdentical {
			t.Fatalf("expected exit 0, got %d\nstdout: %s\nstderr: %s", out.code, out.stdout, out.stderr)
		}
		if !strings.Contains(out.stdout, "Comparing POST requests:") {
			t.Errorf("expected profile method POST, got:\n%s", out.stdout)
		}
	})

	t.Run("missing method exits 2", func(t *testing.T) {
		t.Parallel()
		out := runCLI(t, "--config", emptyConfig(t), "http://a.example", "http://b.example")

		if out.code != exitUsage {
			t.Fatalf("expected exit 2, got %d", out.code)
		}
		if !strings.Contains(out.stderr, "HTTP method is required") {
			t.Errorf("expected method error, got %q", out.stderr)
		}
	})

	t.Run("wrong URL count exits 2", func(t *testing.T) {
		t.Parallel()
		out := runCLI(t, "-X", "GET", "http://a.example")

		if out.code != exitUsage {
			t.Fatalf("expected exit 2, got %d", out.code)
		}
		if !strings.Contains(out.stderr, "exactly two URLs") {
			t.Errorf("expected URL count error, got %q", out.stderr)
		}
	})

	t.Run("malformed header exits 2", func(t *testing.T) {
		t.Parallel()
		out := runCLI(t, "--config", emptyConfig(t), "-X", "GET", "-H", "broken", "http://a.example", "http://b.example")

		if out.code != exitUsage {
			t.Fatalf("expected exit 2, got %d", out.code)
		}
		if !strings.Contains(out.stderr, "malformed header") {
			t.Errorf("expected header error, got %q", out.stderr)
		}
	})

	t.Run("unknown flag exits 2", func(t *testing.T) {
		t.Parallel()
		out := runCLI(t, "--no-such-flag", "http://a.example", "http://b.example")

		if out.code != exitUsage {
			t.Fatalf("expected exit 2, got %d", out.code)
		}
	})

	t.Run("conflicting formats exit 2", func(t *testing.T) {
		t.Parallel()
		out := runCLI(t, "--config", emptyConfig(t), "-X", "GET", "--json", "--markdown", "http://a.example", "http://b.example")

		if out.code != exitUsage {
			t.Fatalf("expected exit 2, got %d", out.code)
		}
	})

	t.Run("explicit missing config exits 2", func(t *testing.T) {
		t.Parallel()
		out := runCLI(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "-X", "GET", "http://a.example", "http://b.example")

		if out.code != exitUsage {
			t.Fatalf("expected exit 2, got %d", out.code)
		}
		if !strings.Contains(out.stderr, "configuration file not found") {
			t.Errorf("expected not found error, got %q", out.stderr)
		}
	})

	t.Run("unknown profile exits 2", func(t *testing.T) {
		t.Parallel()
		out := runCLI(t, "--config", emptyConfig(t), "--profile", "nope", "-X", "GET", "http://a.example", "http://b.example")

		if out.code != exitUsage {
			t.Fatalf("expected exit 2, got %d", out.code)
		}
	})
}
