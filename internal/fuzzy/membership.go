// Package fuzzy holds the membership functions used to turn numeric attributes
// into degrees of membership in [0,1].
package fuzzy

import (
	"fmt"
	"math"
)

// Trap is a trapezoid membership function with breakpoints A <= B <= C <= D.
type Trap struct {
	A, B, C, D float64
}

// Validate reports breakpoints that are out of order or collapse a ramp edge.
func (t Trap) Validate() error {
	if !(t.A <= t.B && t.B <= t.C && t.C <= t.D) {
		return fmt.Errorf("trapezoid breakpoints out of order: %v", t)
	}
	if t.A == t.B {
		return fmt.Errorf("trapezoid rising edge is degenerate: a == b == %v", t.A)
	}
	if t.C == t.D {
		return fmt.Errorf("trapezoid falling edge is degenerate: c == d == %v", t.C)
	}
	return nil
}

// Degree evaluates the trapezoid at x.
func (t Trap) Degree(x float64) float64 {
	return Trapezoid(x, t.A, t.B, t.C, t.D)
}

// Trapezoid returns 0 outside (a,d), 1 on [b,c] and a linear ramp in between.
// A collapsed edge (a == b or c == d) is a step, no division happens on it.
func Trapezoid(x, a, b, c, d float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= b && x <= c:
		return 1
	case x <= a || x >= d:
		return 0
	case x < b:
		return (x - a) / (b - a)
	default:
		return (d - x) / (d - c)
	}
}

// Sigmoid returns 1/(1+exp(-k(x-x0))).
func Sigmoid(x, x0, k float64) float64 {
	z := k * (x - x0)
	// exp of a large positive argument overflows; evaluate through the negative side.
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// Func is any membership function of one variable.
type Func func(float64) float64

// Apply evaluates f element-wise.
func Apply(xs []float64, f Func) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

// Const returns a membership function that ignores its input.
func Const(v float64) Func {
	return func(float64) float64 { return v }
}
