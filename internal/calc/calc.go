// Package calc provides four-function integer arithmetic.
package calc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDivisionByZero is returned by Divide when the divisor is zero.
var ErrDivisionByZero = errors.New("division by zero is not allowed")

// ErrUnknownOp is returned by Apply for an unrecognised operation name.
var ErrUnknownOp = errors.New("unknown operation")

// Add returns a + b.
func Add(a, b int) int { return a + b }

// Subtract returns a - b.
func Subtract(a, b int) int { return a - b }

// Multiply returns a * b.
func Multiply(a, b int) int { return a * b }

// Divide returns a / b truncated toward zero.
func Divide(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

// Ops lists the operation names accepted by Apply.
var Ops = []string{"add", "subtract", "multiply", "divide"}

// Apply runs the named operation. Names are case-insensitive.
func Apply(op string, a, b int) (int, error) {
	switch strings.ToLower(op) {
	case "add":
		return Add(a, b), nil
	case "subtract":
		return Subtract(a, b), nil
	case "multiply":
		return Multiply(a, b), nil
	case "divide":
		return Divide(a, b)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
}
