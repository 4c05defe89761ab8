package tools

const (
	ServerPrompt = `This MCP server exposes basic floating-point arithmetic.

Every tool takes two numbers and returns {"result": <number>}.

- Use add, subtract, multiply and divide for the four basic operations.
- Use modulo for the remainder of a / b (floor modulo: the result has the sign of b).
- Use power for exponentiation, including fractional exponents such as 0.5 for square roots.

divide and modulo report an error instead of a number when the divisor is zero.
power reports an error when the result is not a finite number (for example a negative base with a fractional exponent).`

	AddPrompt = `Add two numbers.`

	SubtractPrompt = `Subtract b from a.`

	MultiplyPrompt = `Multiply two numbers.`

	DividePrompt = `Divide a by b.

Fails with "Cannot divide by zero." when b is 0.`

	ModuloPrompt = `Return the remainder of a divided by b.

Uses floor modulo semantics: the result is 0 or has the sign of b, so -7 mod 3 is 2.
Fails with "Cannot modulo by zero." when b is 0.`

	PowerPrompt = `Raise base to the power of exponent.`
)
