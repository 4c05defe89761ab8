// Package sandbox runs Python snippets in a fresh interpreter process per
// call. Each run is isolated from the previous one and bounded by a timeout.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

const (
	defaultPython  = "python3"
	defaultTimeout = 30 * time.Second
	maxOutputBytes = 64 << 10
)

// ErrTimeout is returned when a snippet exceeds the configured timeout.
var ErrTimeout = errors.New("execution timed out")

// Config configures the Python executor.
type Config struct {
	Python  string        `toml:"python"`
	Timeout time.Duration `toml:"timeout"`
}

// Executor runs Python code with a configured interpreter.
type Executor struct {
	python  string
	timeout time.Duration
}

// ExitError carries the output of a snippet that exited non-zero.
type ExitError struct {
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d: %s", e.Code, e.Output)
}

func New(cfg Config) *Executor {
	if cfg.Python == "" {
		cfg.Python = defaultPython
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Executor{python: cfg.Python, timeout: cfg.Timeout}
}

// Timeout returns the per-run limit.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

var (
	leadingFence  = regexp.MustCompile("^(\\s|`)*(?i:python)?\\s*")
	trailingFence = regexp.MustCompile("(\\s|`)*$")
)

// Sanitize strips surrounding whitespace and markdown code fences that
// models tend to wrap code in.
func Sanitize(code string) string {
	code = leadingFence.ReplaceAllString(code, "")
	return trailingFence.ReplaceAllString(code, "")
}

// Run executes code and returns what it printed. stderr is appended so
// warnings stay visible to the caller.
func (e *Executor) Run(ctx context.Context, code string) (string, error) {
	code = Sanitize(code)
	if code == "" {
		return "", errors.New("no code to execute")
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	stdout := &limitedWriter{limit: maxOutputBytes}
	stderr := &limitedWriter{limit: maxOutputBytes}
	cmd := exec.CommandContext(ctx, e.python, "-I", "-")
	cmd.Stdin = strings.NewReader(code)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = time.Second

	slog.Debug("Running python snippet", "python", e.python, "bytes", len(code))
	start := time.Now()
	err := cmd.Run()
	slog.Debug("Python snippet finished", "duration", time.Since(start), "err", err)
	if stdout.truncated || stderr.truncated {
		slog.Warn("Python output truncated", "limit", maxOutputBytes)
	}

	output := combine(stdout.String(), stderr.String())

	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return output, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
		}
		return output, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, &ExitError{Code: exitErr.ExitCode(), Output: output}
	}
	if err != nil {
		return output, fmt.Errorf("failed to run %s: %w", e.python, err)
	}
	return output, nil
}

func combine(stdout, stderr string) string {
	stdout = strings.TrimRight(stdout, "\n")
	stderr = strings.TrimRight(stderr, "\n")
	switch {
	case stderr == "":
		return stdout
	case stdout == "":
		return stderr
	default:
		return stdout + "\n" + stderr
	}
}

const truncatedNote = "\n... (truncated)"

// limitedWriter keeps the first limit bytes written to it and discards the
// rest, remembering that it did so.
type limitedWriter struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if room := w.limit - w.buf.Len(); n > room {
		w.truncated = true
		p = p[:max(room, 0)]
	}
	w.buf.Write(p)
	return n, nil
}

// String returns the kept output, followed by a note when bytes were dropped.
func (w *limitedWriter) String() string {
	if w.truncated {
		return strings.TrimRight(w.buf.String(), "\n") + truncatedNote
	}
	return w.buf.String()
}
