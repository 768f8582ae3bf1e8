package fuzzy

import (
	"math"
	"testing"
)

func TestTrapezoid(t *testing.T) {
	tr := Trap{A: 0, B: 60, C: 90, D: 110}

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"below a", -5, 0},
		{"at a", 0, 0},
		{"rising edge", 30, 0.5},
		{"at b", 60, 1},
		{"plateau", 75, 1},
		{"at c", 90, 1},
		{"falling edge", 95, 0.75},
		{"at d", 110, 0},
		{"above d", 300, 0},
		{"nan", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.Degree(tt.x)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Trapezoid(%v)=%v want=%v", tt.x, got, tt.want)
			}
		})
	}
}

func TestTrapezoidBoundedAndContinuous(t *testing.T) {
	tr := Trap{A: 4, B: 8, C: 15, D: 30}
	const eps = 1e-9

	for x := -10.0; x <= 50; x += 0.25 {
		v := tr.Degree(x)
		if v < 0 || v > 1 {
			t.Fatalf("Trapezoid(%v)=%v out of [0,1]", x, v)
		}
	}
	for _, bp := range []float64{tr.A, tr.B, tr.C, tr.D} {
		left, mid, right := tr.Degree(bp-eps), tr.Degree(bp), tr.Degree(bp+eps)
		if math.Abs(left-mid) > 1e-6 || math.Abs(right-mid) > 1e-6 {
			t.Fatalf("discontinuity at %v: %v %v %v", bp, left, mid, right)
		}
	}
}

func TestTrapezoidDegenerateEdges(t *testing.T) {
	step := Trap{A: 5, B: 5, C: 10, D: 10}
	if got := step.Degree(4.999); got != 0 {
		t.Fatalf("below step=%v want=0", got)
	}
	if got := step.Degree(5); got != 1 {
		t.Fatalf("at step=%v want=1", got)
	}
	if got := step.Degree(10.0001); got != 0 {
		t.Fatalf("after drop=%v want=0", got)
	}
	if err := step.Validate(); err == nil {
		t.Fatal("expected degenerate trapezoid to fail validation")
	}
}

func TestTrapValidateOrder(t *testing.T) {
	if err := (Trap{A: 3, B: 2, C: 4, D: 5}).Validate(); err == nil {
		t.Fatal("expected out-of-order breakpoints to fail validation")
	}
	if err := (Trap{A: -1, B: 0, C: 3, D: 6}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSigmoid(t *testing.T) {
	if got := Sigmoid(7, 7, 1.2); got != 0.5 {
		t.Fatalf("Sigmoid(x0)=%v want=0.5", got)
	}
	for x := -20.0; x <= 20; x += 0.5 {
		v := Sigmoid(x, 0, 1)
		if v <= 0 || v >= 1 {
			t.Fatalf("Sigmoid(%v)=%v not in (0,1)", x, v)
		}
	}
	if Sigmoid(8, 7, 1.2) <= Sigmoid(7.5, 7, 1.2) {
		t.Fatal("sigmoid must increase with x for k > 0")
	}
	// extreme arguments must not produce NaN
	if v := Sigmoid(-1e6, 0, 1); math.IsNaN(v) || v != 0 {
		t.Fatalf("Sigmoid(-1e6)=%v", v)
	}
	if v := Sigmoid(1e6, 0, 1); math.IsNaN(v) || v != 1 {
		t.Fatalf("Sigmoid(1e6)=%v", v)
	}
}

func TestElementWise(t *testing.T) {
	xs := []float64{0, 30, 75, 95, 200}
	got := Apply(xs, Trap{A: 0, B: 60, C: 90, D: 110}.Degree)
	want := []float64{0, 0.5, 1, 0.75, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("trapezoid[%d]=%v want=%v", i, got[i], want[i])
		}
	}

	s := Apply([]float64{5, 5}, func(x float64) float64 { return Sigmoid(x, 5, 3) })
	if len(s) != 2 || s[0] != 0.5 || s[1] != 0.5 {
		t.Fatalf("sigmoid=%v", s)
	}

	if Const(1)(123) != 1 {
		t.Fatal("Const must ignore input")
	}
}

func TestApply(t *testing.T) {
	got := Apply([]float64{1, 2, 3}, Trap{A: 0, B: 2, C: 2, D: 4}.Degree)
	want := []float64{0.5, 1, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Apply[%d]=%v want=%v", i, got[i], want[i])
		}
	}
}
