package config

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// ParseHeader parses a "Name: Value" header line. Surrounding whitespace is
// trimmed from both parts; the value may be empty.
func ParseHeader(line string) (string, string, error) {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedHeader, line)
	}

	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)

	if !httpguts.ValidHeaderFieldName(name) {
		return "", "", fmt.Errorf("%w: invalid name in %q", ErrMalformedHeader, line)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return "", "", fmt.Errorf("%w: invalid value in %q", ErrMalformedHeader, line)
	}
	return name, value, nil
}

// HeaderLine is one parsed line of a headers file.
type HeaderLine struct {
	Name  string
	Value string
}

// ParseHeaders reads "Name: Value" lines from r. Blank lines and lines
// starting with "//" are skipped. A malformed line is reported to warn and
// skipped. Lines are returned in file order.
func ParseHeaders(r io.Reader, warn func(lineNo int, err error)) ([]HeaderLine, error) {
	var out []HeaderLine

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		name, value, err := ParseHeader(line)
		if err != nil {
			if warn != nil {
				warn(lineNo, err)
			}
			continue
		}
		out = append(out, HeaderLine{Name: name, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadHeadersFile reads a headers file. Malformed lines are logged as
// warnings and skipped.
func LoadHeadersFile(path string, logger *slog.Logger) ([]HeaderLine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path) //nolint:gosec // user-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrHeadersFile, path, err)
	}
	defer f.Close()

	lines, err := ParseHeaders(f, func(lineNo int, err error) {
		logger.Warn("skipping malformed header line",
			"file", path,
			"line", lineNo,
			"error", err,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrHeadersFile, path, err)
	}
	return lines, nil
}

// ResolveHeaders merges the headers file and the --header flags into
// Headers, in that order. Headers already present, from the configuration
// file, are overridden by either source.
func (c *Config) ResolveHeaders(logger *slog.Logger) error {
	if c.HeadersFile != "" {
		lines, err := LoadHeadersFile(c.HeadersFile, logger)
		if err != nil {
			return err
		}
		for _, h := range lines {
			c.SetHeader(h.Name, h.Value)
		}
	}

	for _, raw := range c.HeaderFlags {
		name, value, err := ParseHeader(raw)
		if err != nil {
			return err
		}
		c.SetHeader(name, value)
	}
	return nil
}
