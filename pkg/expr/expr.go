// Package expr evaluates plain arithmetic expressions with a restricted gval
// language: numbers, parentheses, unary minus, + - * / % **, a handful of
// math functions and the constants pi and e. There are no variables, loops or
// user functions, so every evaluation terminates.
//
// Operator precedence and associativity follow Python: ** binds tighter than
// unary minus on its left and is right-associative, so -2**2 is -4 and
// 2**3**2 is 512. % is a floor modulo whose result takes the sign of the
// divisor.
package expr

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/PaesslerAG/gval"
)

// ErrNonFinite is returned when an expression evaluates to NaN or an infinity.
var ErrNonFinite = errors.New("result is not a finite number")

// ErrDivisionByZero is returned for / and % with a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

var functions = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"log":   math.Log,
	"log10": math.Log10,
	"exp":   math.Exp,
	"abs":   math.Abs,
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// language replaces gval's operator-stack parser with a recursive descent
// grammar:
//
//	sum   = product { ("+" | "-") product }
//	product = unary { ("*" | "/" | "%") unary }
//	unary = ("-" | "+") unary | power
//	power = atom [ "**" unary ]
//	atom  = number | constant | function "(" sum ")" | "(" sum ")"
var language = gval.NewLanguage(gval.Init(parseExpression))

func parseExpression(c context.Context, p *gval.Parser) (gval.Evaluable, error) {
	eval, err := parseSum(c, p)
	if err != nil {
		return nil, err
	}
	if p.Scan() != scanner.EOF {
		return nil, fmt.Errorf("unexpected %q after expression", p.TokenText())
	}
	return eval, nil
}

func parseSum(c context.Context, p *gval.Parser) (gval.Evaluable, error) {
	left, err := parseProduct(c, p)
	if err != nil {
		return nil, err
	}
	for {
		switch p.Scan() {
		case '+':
			right, err := parseProduct(c, p)
			if err != nil {
				return nil, err
			}
			left = binary(left, right, add)
		case '-':
			right, err := parseProduct(c, p)
			if err != nil {
				return nil, err
			}
			left = binary(left, right, sub)
		default:
			p.Camouflage("operator", '+', '-')
			return left, nil
		}
	}
}

func parseProduct(c context.Context, p *gval.Parser) (gval.Evaluable, error) {
	left, err := parseUnary(c, p)
	if err != nil {
		return nil, err
	}
	for {
		var op func(a, b float64) (float64, error)
		switch p.Scan() {
		case '*':
			op = mul
		case '/':
			op = div
		case '%':
			op = mod
		default:
			p.Camouflage("operator", '*', '/', '%')
			return left, nil
		}
		right, err := parseUnary(c, p)
		if err != nil {
			return nil, err
		}
		left = binary(left, right, op)
	}
}

func parseUnary(c context.Context, p *gval.Parser) (gval.Evaluable, error) {
	switch p.Scan() {
	case '-':
		operand, err := parseUnary(c, p)
		if err != nil {
			return nil, err
		}
		return func(c context.Context, v any) (any, error) {
			x, err := evalFloat(c, operand, v)
			if err != nil {
				return nil, err
			}
			return -x, nil
		}, nil
	case '+':
		return parseUnary(c, p)
	default:
		p.Camouflage("operand")
		return parsePower(c, p)
	}
}

func parsePower(c context.Context, p *gval.Parser) (gval.Evaluable, error) {
	base, err := parseAtom(c, p)
	if err != nil {
		return nil, err
	}
	if p.Scan() == '*' && p.Peek() == '*' {
		p.Next()
		exponent, err := parseUnary(c, p)
		if err != nil {
			return nil, err
		}
		return binary(base, exponent, pow), nil
	}
	p.Camouflage("operator")
	return base, nil
}

func parseAtom(c context.Context, p *gval.Parser) (gval.Evaluable, error) {
	switch p.Scan() {
	case scanner.Int, scanner.Float:
		n, err := strconv.ParseFloat(p.TokenText(), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", p.TokenText(), err)
		}
		return p.Const(n), nil

	case '(':
		eval, err := parseSum(c, p)
		if err != nil {
			return nil, err
		}
		if p.Scan() != ')' {
			return nil, p.Expected("parentheses", ')')
		}
		return eval, nil

	case scanner.Ident:
		name := p.TokenText()
		if v, ok := constants[name]; ok {
			return p.Const(v), nil
		}
		fn, ok := functions[name]
		if !ok {
			return nil, fmt.Errorf("unknown name %q", name)
		}
		return parseCall(c, p, name, fn)

	case scanner.EOF:
		return nil, errors.New("unexpected end of expression")

	default:
		return nil, fmt.Errorf("unexpected %q", p.TokenText())
	}
}

func parseCall(c context.Context, p *gval.Parser, name string, fn func(float64) float64) (gval.Evaluable, error) {
	if p.Scan() != '(' {
		return nil, p.Expected("function call", '(')
	}

	var args []gval.Evaluable
	for {
		arg, err := parseSum(c, p)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		scan := p.Scan()
		if scan == ')' {
			break
		}
		if scan != ',' {
			return nil, p.Expected("arguments", ')', ',')
		}
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("%s() takes exactly one argument, got %d", name, len(args))
	}

	arg := args[0]
	return func(c context.Context, v any) (any, error) {
		x, err := evalFloat(c, arg, v)
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	}, nil
}

func binary(a, b gval.Evaluable, op func(a, b float64) (float64, error)) gval.Evaluable {
	return func(c context.Context, v any) (any, error) {
		x, err := evalFloat(c, a, v)
		if err != nil {
			return nil, err
		}
		y, err := evalFloat(c, b, v)
		if err != nil {
			return nil, err
		}
		return op(x, y)
	}
}

func evalFloat(c context.Context, e gval.Evaluable, v any) (float64, error) {
	out, err := e(c, v)
	if err != nil {
		return 0, err
	}
	f, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %T", out)
	}
	return f, nil
}

func add(a, b float64) (float64, error) { return a + b, nil }
func sub(a, b float64) (float64, error) { return a - b, nil }
func mul(a, b float64) (float64, error) { return a * b, nil }
func pow(a, b float64) (float64, error) { return math.Pow(a, b), nil }

func div(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

func mod(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return Mod(a, b), nil
}

// Mod is the floor modulo of a and b: the result is zero or has the sign of
// b, so Mod(-7, 3) is 2. b must not be zero.
func Mod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// Evaluate parses and evaluates expression, returning a finite float64.
func Evaluate(ctx context.Context, expression string) (float64, error) {
	if strings.TrimSpace(expression) == "" {
		return 0, errors.New("empty expression")
	}

	eval, err := language.NewEvaluableWithContext(ctx, expression)
	if err != nil {
		return 0, err
	}

	f, err := evalFloat(ctx, eval, nil)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinite, f)
	}
	return f, nil
}

// Format renders a result the way Python's repr does: plain notation for
// magnitudes in [1e-4, 1e16), exponent notation otherwise, always with the
// shortest digits that round-trip.
func Format(v float64) string {
	if abs := math.Abs(v); abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
