// Package regress implements the weighted least-squares fits behind the
// calibration models.
package regress

import "math"

// Linear is a fitted line y = A*x + B.
type Linear struct {
	A, B float64
}

// At evaluates the line at x.
func (l Linear) At(x float64) float64 { return l.A*x + l.B }

// Quadratic is a fitted curve y = A*x^2 + B*x + C.
type Quadratic struct {
	A, B, C float64
}

// At evaluates the curve at x.
func (q Quadratic) At(x float64) float64 { return (q.A*x+q.B)*x + q.C }

// LinearWeighted fits y ~ A*x + B minimising the weighted squared error via
// the closed-form normal equations. Degenerate systems (no points, zero total
// weight, or all x equal) fall back to the neutral slope with the weighted
// mean of y as intercept instead of dividing by a vanishing denominator.
func LinearWeighted(xs, ys, ws []float64, neutralSlope float64) Linear {
	var s, sx, sy, sxx, sxy float64
	for i := range xs {
		w := ws[i]
		s += w
		sx += w * xs[i]
		sy += w * ys[i]
		sxx += w * xs[i] * xs[i]
		sxy += w * xs[i] * ys[i]
	}
	den := s*sxx - sx*sx
	if s == 0 || math.Abs(den) <= 1e-12*math.Abs(s*sxx) {
		mean := 0.0
		if s > 0 {
			mean = sy / s
		}
		return Linear{A: neutralSlope, B: mean}
	}
	return Linear{
		A: (s*sxy - sx*sy) / den,
		B: (sy*sxx - sx*sxy) / den,
	}
}

// QuadraticWeighted fits y ~ A*x^2 + B*x + C through the 3x3 normal
// equations. Fewer than 3 points or a singular system fall back to the linear
// fit with A = 0.
func QuadraticWeighted(xs, ys, ws []float64, neutralSlope float64) Quadratic {
	if len(xs) < 3 {
		l := LinearWeighted(xs, ys, ws, neutralSlope)
		return Quadratic{A: 0, B: l.A, C: l.B}
	}
	var aug [3][4]float64
	for i := range xs {
		w := ws[i]
		basis := [3]float64{xs[i] * xs[i], xs[i], 1}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				aug[r][c] += w * basis[r] * basis[c]
			}
			aug[r][3] += w * basis[r] * ys[i]
		}
	}
	sol, ok := solve3(aug)
	if !ok {
		l := LinearWeighted(xs, ys, ws, neutralSlope)
		return Quadratic{A: 0, B: l.A, C: l.B}
	}
	return Quadratic{A: sol[0], B: sol[1], C: sol[2]}
}

// solve3 runs Gaussian elimination with partial pivoting on a 3x4 augmented
// system. Reports failure when the best available pivot drops below 1e-12.
func solve3(aug [3][4]float64) ([3]float64, bool) {
	for col := 0; col < 3; col++ {
		pivot := col
		maxAbs := math.Abs(aug[col][col])
		for r := col + 1; r < 3; r++ {
			if a := math.Abs(aug[r][col]); a > maxAbs {
				maxAbs = a
				pivot = r
			}
		}
		if maxAbs < 1e-12 {
			return [3]float64{}, false
		}
		if pivot != col {
			aug[col], aug[pivot] = aug[pivot], aug[col]
		}
		for r := col + 1; r < 3; r++ {
			factor := aug[r][col] / aug[col][col]
			for c := col; c < 4; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}
	var x [3]float64
	for i := 2; i >= 0; i-- {
		sum := aug[i][3]
		for j := i + 1; j < 3; j++ {
			sum -= aug[i][j] * x[j]
		}
		x[i] = sum / aug[i][i]
	}
	return x, true
}
