package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/rhobs/agent-tools/pkg/expr"
	"github.com/rhobs/agent-tools/pkg/resultutil"
	"github.com/rhobs/agent-tools/pkg/tooldef"
)

var (
	// ErrDivisionByZero is the invalid arithmetic operation reported by
	// divide and modulo when the divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNonFiniteResult is reported when an operation yields NaN or an infinity,
	// which cannot be represented in a JSON result.
	ErrNonFiniteResult = errors.New("non-finite result")
)

// ArithmeticError is an invalid arithmetic operation. Message is what protocol
// clients see; Err allows callers to match the condition with errors.Is.
type ArithmeticError struct {
	Op      string
	Message string
	Err     error
}

func (e *ArithmeticError) Error() string {
	return e.Message
}

func (e *ArithmeticError) Unwrap() error {
	return e.Err
}

// Handler executes a numeric tool against decoded call arguments.
type Handler func(ctx context.Context, args map[string]any) *resultutil.Result

func BuildBinaryInput(args map[string]any) (BinaryInput, error) {
	a, err := tooldef.GetFloat(args, "a")
	if err != nil {
		return BinaryInput{}, err
	}
	b, err := tooldef.GetFloat(args, "b")
	if err != nil {
		return BinaryInput{}, err
	}
	return BinaryInput{A: a, B: b}, nil
}

func BuildPowerInput(args map[string]any) (PowerInput, error) {
	base, err := tooldef.GetFloat(args, "base")
	if err != nil {
		return PowerInput{}, err
	}
	exponent, err := tooldef.GetFloat(args, "exponent")
	if err != nil {
		return PowerInput{}, err
	}
	return PowerInput{Base: base, Exponent: exponent}, nil
}

func numericResult(op string, v float64) *resultutil.Result {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return resultutil.NewErrorResult(&ArithmeticError{
			Op:      op,
			Message: fmt.Sprintf("%s produced a non-finite result (%v)", op, v),
			Err:     ErrNonFiniteResult,
		})
	}
	return resultutil.NewSuccessResult(ArithmeticOutput{Result: v})
}

// AddHandler returns a + b.
func AddHandler(_ context.Context, input BinaryInput) *resultutil.Result {
	slog.Info("AddHandler called")
	slog.Debug("AddHandler params", "input", input)

	result := numericResult(Add.Name, input.A+input.B)

	if result.IsError() {
		slog.Warn("AddHandler failed", "error", result.Error)
		return result
	}

	slog.Info("AddHandler executed successfully", "result", result.JSONText)
	return result
}

// SubtractHandler returns a - b.
func SubtractHandler(_ context.Context, input BinaryInput) *resultutil.Result {
	slog.Info("SubtractHandler called")
	slog.Debug("SubtractHandler params", "input", input)

	result := numericResult(Subtract.Name, input.A-input.B)

	if result.IsError() {
		slog.Warn("SubtractHandler failed", "error", result.Error)
		return result
	}

	slog.Info("SubtractHandler executed successfully", "result", result.JSONText)
	return result
}

// MultiplyHandler returns a * b.
func MultiplyHandler(_ context.Context, input BinaryInput) *resultutil.Result {
	slog.Info("MultiplyHandler called")
	slog.Debug("MultiplyHandler params", "input", input)

	result := numericResult(Multiply.Name, input.A*input.B)

	if result.IsError() {
		slog.Warn("MultiplyHandler failed", "error", result.Error)
		return result
	}

	slog.Info("MultiplyHandler executed successfully", "result", result.JSONText)
	return result
}

// DivideHandler returns a / b, or ErrDivisionByZero when b is zero.
func DivideHandler(_ context.Context, input BinaryInput) *resultutil.Result {
	slog.Info("DivideHandler called")
	slog.Debug("DivideHandler params", "input", input)

	if input.B == 0 {
		slog.Warn("DivideHandler rejected zero divisor", "a", input.A)
		return resultutil.NewErrorResult(&ArithmeticError{
			Op:      Divide.Name,
			Message: "Cannot divide by zero.",
			Err:     ErrDivisionByZero,
		})
	}

	result := numericResult(Divide.Name, input.A/input.B)

	if result.IsError() {
		slog.Warn("DivideHandler failed", "error", result.Error)
		return result
	}

	slog.Info("DivideHandler executed successfully", "result", result.JSONText)
	return result
}

// ModuloHandler returns the floor modulo of a and b, whose sign follows b,
// or ErrDivisionByZero when b is zero.
func ModuloHandler(_ context.Context, input BinaryInput) *resultutil.Result {
	slog.Info("ModuloHandler called")
	slog.Debug("ModuloHandler params", "input", input)

	if input.B == 0 {
		slog.Warn("ModuloHandler rejected zero divisor", "a", input.A)
		return resultutil.NewErrorResult(&ArithmeticError{
			Op:      Modulo.Name,
			Message: "Cannot modulo by zero.",
			Err:     ErrDivisionByZero,
		})
	}

	result := numericResult(Modulo.Name, expr.Mod(input.A, input.B))

	if result.IsError() {
		slog.Warn("ModuloHandler failed", "error", result.Error)
		return result
	}

	slog.Info("ModuloHandler executed successfully", "result", result.JSONText)
	return result
}

// PowerHandler returns base ** exponent. Combinations without a real result
// surface as ErrNonFiniteResult.
func PowerHandler(_ context.Context, input PowerInput) *resultutil.Result {
	slog.Info("PowerHandler called")
	slog.Debug("PowerHandler params", "input", input)

	result := numericResult(Power.Name, math.Pow(input.Base, input.Exponent))

	if result.IsError() {
		slog.Warn("PowerHandler failed", "error", result.Error)
		return result
	}

	slog.Info("PowerHandler executed successfully", "result", result.JSONText)
	return result
}

func binary(fn func(context.Context, BinaryInput) *resultutil.Result) Handler {
	return func(ctx context.Context, args map[string]any) *resultutil.Result {
		input, err := BuildBinaryInput(args)
		if err != nil {
			return resultutil.NewErrorResult(err)
		}
		return fn(ctx, input)
	}
}

func power(ctx context.Context, args map[string]any) *resultutil.Result {
	input, err := BuildPowerInput(args)
	if err != nil {
		return resultutil.NewErrorResult(err)
	}
	return PowerHandler(ctx, input)
}
