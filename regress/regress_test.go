package regress

import (
	"math"
	"testing"
)

func ones(n int) []float64 {
	ws := make([]float64, n)
	for i := range ws {
		ws[i] = 1
	}
	return ws
}

func TestLinearExactRecovery(t *testing.T) {
	const a, b = 1.25, -250.0
	xs := make([]float64, 50)
	ys := make([]float64, 50)
	ws := make([]float64, 50)
	for i := range xs {
		xs[i] = 1000 + 0.4*float64(i)
		ys[i] = a*xs[i] + b
		ws[i] = 0.1 + float64(i%7) // arbitrary positive weights
	}
	fit := LinearWeighted(xs, ys, ws, 1)
	if math.Abs(fit.A-a) > 1e-9 || math.Abs(fit.B-b) > 1e-6 {
		t.Fatalf("got A=%v B=%v, want A=%v B=%v", fit.A, fit.B, a, b)
	}
}

func TestLinearDegenerate(t *testing.T) {
	// No points: neutral slope, zero intercept.
	fit := LinearWeighted(nil, nil, nil, 1)
	if fit.A != 1 || fit.B != 0 {
		t.Fatalf("empty fit = %+v", fit)
	}
	// All x equal: neutral slope, weighted mean of y.
	xs := []float64{500, 500, 500}
	ys := []float64{10, 20, 60}
	fit = LinearWeighted(xs, ys, ones(3), 0)
	if fit.A != 0 || math.Abs(fit.B-30) > 1e-12 {
		t.Fatalf("all-x-equal fit = %+v, want A=0 B=30", fit)
	}
	// Weighted mean respects the weights.
	fit = LinearWeighted(xs, ys, []float64{1, 1, 2}, 1)
	if math.Abs(fit.B-37.5) > 1e-12 {
		t.Fatalf("weighted mean intercept = %v, want 37.5", fit.B)
	}
}

func TestQuadraticExactRecovery(t *testing.T) {
	const a, b, c = 0.02, -0.5, 80.0
	xs := make([]float64, 40)
	ys := make([]float64, 40)
	for i := range xs {
		xs[i] = 10 + 2.5*float64(i)
		ys[i] = a*xs[i]*xs[i] + b*xs[i] + c
	}
	fit := QuadraticWeighted(xs, ys, ones(len(xs)), 1)
	if math.Abs(fit.A-a) > 1e-6 || math.Abs(fit.B-b) > 1e-5 || math.Abs(fit.C-c) > 1e-3 {
		t.Fatalf("got %+v, want A=%v B=%v C=%v", fit, a, b, c)
	}
}

func TestQuadraticFallsBackToLinear(t *testing.T) {
	// Two points cannot determine a parabola.
	fit := QuadraticWeighted([]float64{0, 10}, []float64{5, 25}, ones(2), 1)
	if fit.A != 0 {
		t.Fatalf("expected linear fallback, got A=%v", fit.A)
	}
	if math.Abs(fit.B-2) > 1e-12 || math.Abs(fit.C-5) > 1e-12 {
		t.Fatalf("fallback line = %+v, want B=2 C=5", fit)
	}
	// All x equal: singular normal matrix, linear fallback with its own
	// degenerate handling.
	fit = QuadraticWeighted([]float64{3, 3, 3}, []float64{1, 2, 3}, ones(3), 1)
	if fit.A != 0 || fit.B != 1 || math.Abs(fit.C-2) > 1e-12 {
		t.Fatalf("singular fallback = %+v", fit)
	}
}

func TestEvaluators(t *testing.T) {
	l := Linear{A: 2, B: -1}
	if l.At(3) != 5 {
		t.Fatalf("Linear.At = %v", l.At(3))
	}
	q := Quadratic{A: 1, B: 0, C: -4}
	if q.At(3) != 5 {
		t.Fatalf("Quadratic.At = %v", q.At(3))
	}
}
