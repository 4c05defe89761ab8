package agenttools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata" // IANA database for hosts without /usr/share/zoneinfo

	langchaintools "github.com/tmc/langchaingo/tools"

	"github.com/rhobs/agent-tools/pkg/expr"
	"github.com/rhobs/agent-tools/pkg/sandbox"
	"github.com/rhobs/agent-tools/pkg/tooldef"
)

const defaultTimezone = "UTC"

// Handler executes an agent tool. It never fails: problems are reported in
// the returned text, which always starts with "Error" in that case.
type Handler func(ctx context.Context, args map[string]any) string

// CalculatorHandler evaluates the "expression" argument.
func CalculatorHandler(ctx context.Context, args map[string]any) string {
	expression := tooldef.GetString(args, "expression", "")
	slog.Info("CalculatorHandler called")
	slog.Debug("CalculatorHandler params", "expression", expression)

	result, err := expr.Evaluate(ctx, expression)
	if err != nil {
		slog.Warn("CalculatorHandler failed", "expression", expression, "err", err)
		return fmt.Sprintf("Error evaluating '%s': %v", expression, err)
	}

	slog.Info("CalculatorHandler executed successfully", "result", result)
	return "Result: " + expr.Format(result)
}

// DatetimeHandler returns a handler for get_current_datetime reading the
// wall clock through now.
func DatetimeHandler(now func() time.Time) Handler {
	return func(_ context.Context, args map[string]any) string {
		timezone := tooldef.GetString(args, "timezone", defaultTimezone)
		slog.Info("DatetimeHandler called")
		slog.Debug("DatetimeHandler params", "timezone", timezone)

		loc, err := loadLocation(timezone)
		if err != nil {
			slog.Warn("DatetimeHandler failed", "timezone", timezone, "err", err)
			return fmt.Sprintf("Error: invalid timezone '%s': %v", timezone, err)
		}

		t := now().In(loc)
		slog.Info("DatetimeHandler executed successfully")
		return fmt.Sprintf("Current date/time in %s:\n  Date: %s\n  Time: %s",
			timezone, t.Format("2006-01-02 (Monday)"), t.Format("15:04:05 MST"))
	}
}

// ConvertTimeHandler returns a handler for convert_time. The time of day is
// placed on today's date in the source timezone.
func ConvertTimeHandler(now func() time.Time) Handler {
	return func(_ context.Context, args map[string]any) string {
		timeStr := tooldef.GetString(args, "time_str", "")
		fromTZ := tooldef.GetString(args, "from_tz", "")
		toTZ := tooldef.GetString(args, "to_tz", "")
		slog.Info("ConvertTimeHandler called")
		slog.Debug("ConvertTimeHandler params", "time_str", timeStr, "from_tz", fromTZ, "to_tz", toTZ)

		converted, err := convertTime(now(), timeStr, fromTZ, toTZ)
		if err != nil {
			slog.Warn("ConvertTimeHandler failed", "err", err)
			return fmt.Sprintf("Error converting time: %v", err)
		}

		slog.Info("ConvertTimeHandler executed successfully")
		return fmt.Sprintf("%s %s = %s %s (%s)",
			timeStr, fromTZ, converted.Format("15:04"), toTZ, converted.Format("2006-01-02 MST"))
	}
}

func convertTime(now time.Time, timeStr, fromTZ, toTZ string) (time.Time, error) {
	src, err := loadLocation(fromTZ)
	if err != nil {
		return time.Time{}, err
	}
	dst, err := loadLocation(toTZ)
	if err != nil {
		return time.Time{}, err
	}

	clock, err := time.Parse("15:04", strings.TrimSpace(timeStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q does not match format HH:MM", timeStr)
	}

	today := now.In(src)
	local := time.Date(today.Year(), today.Month(), today.Day(), clock.Hour(), clock.Minute(), 0, 0, src)
	return local.In(dst), nil
}

// loadLocation resolves an IANA name. Unlike time.LoadLocation it rejects the
// empty name and "Local", which would otherwise resolve to UTC or to the host
// zone.
func loadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "":
		return nil, errors.New("timezone name is empty")
	case "Local":
		return nil, errors.New("not an IANA timezone name")
	}
	return time.LoadLocation(name)
}

// WebSearchHandler returns a handler for web_search backed by backend.
func WebSearchHandler(backend langchaintools.Tool) Handler {
	return func(ctx context.Context, args map[string]any) string {
		query := tooldef.GetString(args, "query", "")
		slog.Info("WebSearchHandler called")
		slog.Debug("WebSearchHandler params", "query", query)

		if backend == nil {
			return "Error: web search is not configured"
		}
		if strings.TrimSpace(query) == "" {
			return "Error: query must not be empty"
		}

		out, err := backend.Call(ctx, query)
		if err != nil {
			slog.Warn("WebSearchHandler failed", "backend", backend.Name(), "err", err)
			return fmt.Sprintf("Error: web search failed: %v", err)
		}

		slog.Info("WebSearchHandler executed successfully", "backend", backend.Name(), "bytes", len(out))
		return out
	}
}

// PythonREPLHandler returns a handler for python_repl backed by executor.
func PythonREPLHandler(executor *sandbox.Executor) Handler {
	return func(ctx context.Context, args map[string]any) string {
		code := tooldef.GetString(args, "code", "")
		slog.Info("PythonREPLHandler called")
		slog.Debug("PythonREPLHandler params", "code", code)

		if executor == nil {
			return "Error: python execution is not configured"
		}

		out, err := executor.Run(ctx, code)
		if err != nil {
			slog.Warn("PythonREPLHandler failed", "err", err)
			var exitErr *sandbox.ExitError
			if errors.As(err, &exitErr) && exitErr.Output != "" {
				return "Error: " + exitErr.Output
			}
			return fmt.Sprintf("Error: %v", err)
		}

		slog.Info("PythonREPLHandler executed successfully", "bytes", len(out))
		if out == "" {
			return "Code executed successfully with no output."
		}
		return out
	}
}
