// Package robust provides the order statistics and Huber weighting used by
// the iteratively reweighted calibration fits.
package robust

import (
	"math"
	"sort"
)

// DefaultHuberK is the usual Huber tuning constant (95% efficiency on
// normally distributed residuals).
const DefaultHuberK = 1.345

// madScale makes the MAD a consistent estimator of the standard deviation.
const madScale = 1.4826

// Median returns the middle value of vs, averaging the two middle values for
// even lengths. Empty input yields 0. The input slice is not modified.
func Median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	s := append([]float64(nil), vs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return 0.5 * (s[n/2-1] + s[n/2])
}

// MAD returns the median absolute deviation from the median, 0 for empty
// input.
func MAD(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	m := Median(vs)
	devs := make([]float64, len(vs))
	for i, v := range vs {
		devs[i] = math.Abs(v - m)
	}
	return Median(devs)
}

// Scale estimates the spread of residuals: 1.4826*MAD, falling back to the
// root mean square when the MAD is zero, falling back to 1 when residuals is
// empty.
func Scale(residuals []float64) float64 {
	if len(residuals) == 0 {
		return 1
	}
	s := madScale * MAD(residuals)
	if s == 0 {
		sum := 0.0
		for _, r := range residuals {
			sum += r * r
		}
		s = math.Sqrt(sum / float64(len(residuals)))
	}
	return s
}

// HuberWeights returns one weight per residual: 1 inside the threshold
// c = k*max(scale, 1) and c/|r| beyond it, so outliers are down-weighted
// rather than excluded.
func HuberWeights(residuals []float64, k float64) []float64 {
	c := k * math.Max(Scale(residuals), 1)
	ws := make([]float64, len(residuals))
	for i, r := range residuals {
		a := math.Abs(r)
		if a <= c {
			ws[i] = 1
		} else {
			ws[i] = c / a
		}
	}
	return ws
}
