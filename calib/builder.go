package calib

import (
	"math"

	"barocal/regress"
	"barocal/robust"
)

// Params reports the fitted correction for one sensor, tagged by the method
// that produced it. Only the fields belonging to that method are meaningful.
type Params struct {
	Method      Method  `json:"method"`
	AltOffset   float64 `json:"altOffset,omitempty"`   // m
	AltSlope    float64 `json:"altSlope,omitempty"`    // dimensionless
	AltQuad     float64 `json:"altQuad,omitempty"`     // 1/m
	PressOffset float64 `json:"pressOffset,omitempty"` // Pa
	PressSlope  float64 `json:"pressSlope,omitempty"`  // dimensionless
	PressScale  float64 `json:"pressScale,omitempty"`  // dimensionless
}

// Calibrator is the fitted result for one sensor: an evaluator closure from
// raw to calibrated altitude plus the parameters behind it.
type Calibrator struct {
	Eval       func(float64) float64 `json:"-"`
	Params     Params                `json:"params"`
	PointsUsed int                   `json:"pointsUsed"`
}

func identityCalibrator(m Method) Calibrator {
	return Calibrator{
		Eval:   func(h float64) float64 { return h },
		Params: Params{Method: m},
	}
}

// Fitted pressures are clamped to this range before the inverse conversion;
// anything outside is not a plausible atmosphere.
const (
	minPressurePa = 5000.0
	maxPressurePa = 110000.0
)

func clampPressure(p float64) float64 {
	if p < minPressurePa {
		return minPressurePa
	}
	if p > maxPressurePa {
		return maxPressurePa
	}
	return p
}

// Build fits one sensor's calibration from parallel raw and reference
// altitude samples. It never fails: with no usable pairs it returns the
// identity calibrator with zero points used.
func Build(hRaw, hRef []float64, opts Options) Calibrator {
	opts = opts.normalized()
	n := len(hRaw)
	if len(hRef) < n {
		n = len(hRef)
	}
	raw := make([]float64, 0, n)
	ref := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if finite(hRaw[i]) && finite(hRef[i]) {
			raw = append(raw, hRaw[i])
			ref = append(ref, hRef[i])
		}
	}
	if len(raw) == 0 {
		return identityCalibrator(opts.Method)
	}
	if opts.Robust && len(raw) >= 5 {
		// One altitude-space pre-fit prunes gross outliers before any
		// method-specific fitting, pressure-domain methods included.
		raw, ref = pruneOutliers(raw, ref, opts.OutlierSigma)
	}

	switch opts.Method {
	case OffsetAlt:
		diffs := make([]float64, len(raw))
		for i := range raw {
			diffs[i] = ref[i] - raw[i]
		}
		off := central(diffs, opts.Robust)
		return Calibrator{
			Eval:       func(h float64) float64 { return h + off },
			Params:     Params{Method: OffsetAlt, AltOffset: off},
			PointsUsed: len(raw),
		}

	case LinearAlt:
		fit := irlsLinear(raw, ref, passes(opts.Robust))
		return Calibrator{
			Eval:       fit.At,
			Params:     Params{Method: LinearAlt, AltSlope: fit.A, AltOffset: fit.B},
			PointsUsed: len(raw),
		}

	case QuadraticAlt:
		ws := ones(len(raw))
		if opts.Robust {
			lin := regress.LinearWeighted(raw, ref, ws, 1)
			ws = robust.HuberWeights(residuals(raw, ref, lin.At), robust.DefaultHuberK)
		}
		fit := regress.QuadraticWeighted(raw, ref, ws, 1)
		return Calibrator{
			Eval:       fit.At,
			Params:     Params{Method: QuadraticAlt, AltQuad: fit.A, AltSlope: fit.B, AltOffset: fit.C},
			PointsUsed: len(raw),
		}

	case OffsetPress, ScalePress, LinearPress:
		return buildPressure(raw, ref, opts)
	}
	// Unreachable for valid methods; the enum is closed and guarded by tests.
	return identityCalibrator(opts.Method)
}

func buildPressure(raw, ref []float64, opts Options) Calibrator {
	atm := opts.ISA
	pRaw := make([]float64, len(raw))
	pRef := make([]float64, len(raw))
	for i := range raw {
		pRaw[i] = atm.PressureAt(raw[i])
		pRef[i] = atm.PressureAt(ref[i])
	}

	switch opts.Method {
	case OffsetPress:
		diffs := make([]float64, len(raw))
		for i := range raw {
			diffs[i] = pRef[i] - pRaw[i]
		}
		off := central(diffs, opts.Robust)
		return Calibrator{
			Eval: func(h float64) float64 {
				return atm.AltitudeAt(clampPressure(atm.PressureAt(h) + off))
			},
			Params:     Params{Method: OffsetPress, PressOffset: off},
			PointsUsed: len(raw),
		}

	case ScalePress:
		ratios := make([]float64, len(raw))
		for i := range raw {
			ratios[i] = pRef[i] / pRaw[i]
		}
		scale := central(ratios, opts.Robust)
		return Calibrator{
			Eval: func(h float64) float64 {
				return atm.AltitudeAt(clampPressure(atm.PressureAt(h) * scale))
			},
			Params:     Params{Method: ScalePress, PressScale: scale},
			PointsUsed: len(raw),
		}

	case LinearPress:
		fit := irlsLinear(pRaw, pRef, passes(opts.Robust))
		return Calibrator{
			Eval: func(h float64) float64 {
				return atm.AltitudeAt(clampPressure(fit.At(atm.PressureAt(h))))
			},
			Params:     Params{Method: LinearPress, PressSlope: fit.A, PressOffset: fit.B},
			PointsUsed: len(raw),
		}
	}
	return identityCalibrator(opts.Method)
}

// pruneOutliers drops pairs whose residual against a one-pass linear fit
// exceeds sigma times the robust residual scale.
func pruneOutliers(raw, ref []float64, sigma float64) ([]float64, []float64) {
	fit := regress.LinearWeighted(raw, ref, ones(len(raw)), 1)
	res := residuals(raw, ref, fit.At)
	threshold := sigma * robust.Scale(res)
	keptRaw := make([]float64, 0, len(raw))
	keptRef := make([]float64, 0, len(ref))
	for i := range raw {
		if math.Abs(res[i]) <= threshold {
			keptRaw = append(keptRaw, raw[i])
			keptRef = append(keptRef, ref[i])
		}
	}
	return keptRaw, keptRef
}

// irlsLinear runs the given number of reweighted linear passes, Huber
// weighting the residuals between passes.
func irlsLinear(xs, ys []float64, iters int) regress.Linear {
	ws := ones(len(xs))
	fit := regress.LinearWeighted(xs, ys, ws, 1)
	for it := 1; it < iters; it++ {
		ws = robust.HuberWeights(residuals(xs, ys, fit.At), robust.DefaultHuberK)
		fit = regress.LinearWeighted(xs, ys, ws, 1)
	}
	return fit
}

// central is the location estimate for the one-point methods: median under
// robust fitting, plain mean otherwise.
func central(vs []float64, robustOn bool) float64 {
	if robustOn {
		return robust.Median(vs)
	}
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func passes(robustOn bool) int {
	if robustOn {
		return 3
	}
	return 1
}

func residuals(xs, ys []float64, f func(float64) float64) []float64 {
	res := make([]float64, len(xs))
	for i := range xs {
		res[i] = ys[i] - f(xs[i])
	}
	return res
}

func ones(n int) []float64 {
	ws := make([]float64, n)
	for i := range ws {
		ws[i] = 1
	}
	return ws
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
