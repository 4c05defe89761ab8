package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhobs/agent-tools/pkg/expr"
)

func call(t *testing.T, name string, args map[string]any) (float64, error) {
	t.Helper()

	reg, err := NewRegistry()
	require.NoError(t, err)

	entry, ok := reg.Get(name)
	require.True(t, ok, "tool %s not registered", name)

	result := entry.Handler(context.Background(), args)
	if result.IsError() {
		return 0, result.Error
	}
	out, ok := result.Data.(ArithmeticOutput)
	require.True(t, ok)
	return out.Result, nil
}

func TestArithmeticHandlers(t *testing.T) {
	pairs := [][2]float64{
		{0, 0},
		{1, 2},
		{-3.5, 2.25},
		{1e10, -1e-10},
		{0.1, 0.2},
	}

	for _, p := range pairs {
		a, b := p[0], p[1]
		args := map[string]any{"a": a, "b": b}

		got, err := call(t, "add", args)
		require.NoError(t, err)
		assert.Equal(t, a+b, got)

		got, err = call(t, "subtract", args)
		require.NoError(t, err)
		assert.Equal(t, a-b, got)

		got, err = call(t, "multiply", args)
		require.NoError(t, err)
		assert.Equal(t, a*b, got)

		if b != 0 {
			got, err = call(t, "divide", args)
			require.NoError(t, err)
			assert.Equal(t, a/b, got)

			got, err = call(t, "modulo", args)
			require.NoError(t, err)
			assert.Equal(t, expr.Mod(a, b), got)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	tests := []struct {
		tool    string
		a       float64
		message string
	}{
		{tool: "divide", a: 1, message: "Cannot divide by zero."},
		{tool: "divide", a: 0, message: "Cannot divide by zero."},
		{tool: "divide", a: -7.5, message: "Cannot divide by zero."},
		{tool: "modulo", a: 1, message: "Cannot modulo by zero."},
		{tool: "modulo", a: 0, message: "Cannot modulo by zero."},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			_, err := call(t, tt.tool, map[string]any{"a": tt.a, "b": 0.0})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDivisionByZero)
			assert.EqualError(t, err, tt.message)

			var arithErr *ArithmeticError
			require.ErrorAs(t, err, &arithErr)
			assert.Equal(t, tt.tool, arithErr.Op)
		})
	}
}

func TestModuloSign(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{a: -7, b: 3, want: 2},
		{a: 7, b: -3, want: -2},
		{a: -7, b: -3, want: -1},
		{a: -7.5, b: 2, want: 0.5},
		{a: 7.5, b: 2, want: 1.5},
		{a: 6, b: -3, want: 0},
	}

	for _, tt := range tests {
		got, err := call(t, "modulo", map[string]any{"a": tt.a, "b": tt.b})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "modulo(%v, %v)", tt.a, tt.b)
	}
}

func TestPower(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		exponent float64
		want     float64
		wantErr  error
	}{
		{name: "integer exponent", base: 2, exponent: 10, want: 1024},
		{name: "square root", base: 9, exponent: 0.5, want: 3},
		{name: "zero exponent", base: 5, exponent: 0, want: 1},
		{name: "negative exponent", base: 2, exponent: -2, want: 0.25},
		{name: "negative base fractional exponent", base: -8, exponent: 1.0 / 3, wantErr: ErrNonFiniteResult},
		{name: "overflow", base: 10, exponent: 400, wantErr: ErrNonFiniteResult},
		{name: "zero to negative power", base: 0, exponent: -1, wantErr: ErrNonFiniteResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, "power", map[string]any{"base": tt.base, "exponent": tt.exponent})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{name: "missing b", tool: "add", args: map[string]any{"a": 1.0}},
		{name: "non numeric", tool: "multiply", args: map[string]any{"a": "two", "b": 2.0}},
		{name: "missing exponent", tool: "power", args: map[string]any{"base": 2.0}},
		{name: "nil args", tool: "subtract", args: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, tt.tool, tt.args)
			assert.Error(t, err)
		})
	}
}

func TestNumericStringArguments(t *testing.T) {
	got, err := call(t, "add", map[string]any{"a": "1.5", "b": 2})
	require.NoError(t, err)
	assert.Equal(t, 3.5, got)
}

func TestIdempotent(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	for _, entry := range reg.Entries() {
		args := map[string]any{"a": 6.0, "b": 4.0, "base": 6.0, "exponent": 4.0}
		first := entry.Handler(context.Background(), args)
		second := entry.Handler(context.Background(), args)
		assert.Equal(t, first.JSONText, second.JSONText, entry.Def.Name)
	}
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{"add", "subtract", "multiply", "divide", "modulo", "power"}, reg.Names())
	for _, def := range AllTools() {
		entry, ok := reg.Get(def.Name)
		require.True(t, ok)
		assert.NotEmpty(t, entry.Def.Description)
		assert.Len(t, entry.Def.Params, 2)
		for _, p := range entry.Def.Params {
			assert.True(t, p.Required)
		}
	}
}
