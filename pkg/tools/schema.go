package tools

// ArithmeticOutput defines the output schema shared by all numeric tools.
type ArithmeticOutput struct {
	Result float64 `json:"result" jsonschema:"description=The numeric result of the operation"`
}

// BinaryInput holds the operands of add, subtract, multiply, divide and modulo.
type BinaryInput struct {
	A float64
	B float64
}

// PowerInput holds the operands of power.
type PowerInput struct {
	Base     float64
	Exponent float64
}
