package calib

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"barocal/track"
)

// DiffStats summarises a pairwise difference series over the shared seconds.
type DiffStats struct {
	Mean   float64 `json:"mean"`   // signed mean difference, m
	MaxAbs float64 `json:"maxAbs"` // max absolute difference, m
	P95Abs float64 `json:"p95Abs"` // 95th percentile absolute difference, m
}

// Result is the orchestrator output: one calibrator per sensor, the number of
// calibration points used, and difference analytics over the full shared set.
type Result struct {
	Baro1      Calibrator `json:"baro1"`
	Baro2      Calibrator `json:"baro2"`
	PointsUsed int        `json:"pointsUsed"`
	BaroDiff   DiffStats  `json:"baroDiff"` // calibrated baro1 vs baro2
	GPSDiff    DiffStats  `json:"gpsDiff"`  // raw gps1 vs gps2
}

// Compute is the calibration entry point. It aligns both tracks on integer
// seconds, derives the GPS reference, fits one calibrator per baro sensor
// over the calibration window, and reports analytics over every shared
// second. It never fails: with no overlap it returns a zero-valued result
// with identity evaluators.
func Compute(t1, t2 *track.Track, opts Options) Result {
	opts = opts.normalized()
	maps := track.BuildSecondMaps(t1, t2)
	shared := maps.SharedSeconds()
	if len(shared) == 0 {
		return Result{
			Baro1: identityCalibrator(opts.Method),
			Baro2: identityCalibrator(opts.Method),
		}
	}

	ref := referenceSeries(maps, shared, opts.Reference)

	window, refWindow := shared, ref
	if !opts.UseAllShared && len(window) > opts.CalibrationSeconds {
		window = window[:opts.CalibrationSeconds]
		refWindow = refWindow[:opts.CalibrationSeconds]
	}
	if opts.verticalSpeedFilterOn() {
		window, refWindow = filterVerticalSpeed(window, refWindow, opts.VerticalSpeedLimit)
	}

	c1 := Build(values(maps.Baro1, window), refWindow, opts)
	c2 := Build(values(maps.Baro2, window), refWindow, opts)

	baroDiffs := make([]float64, len(shared))
	gpsDiffs := make([]float64, len(shared))
	for i, sec := range shared {
		baroDiffs[i] = c1.Eval(maps.Baro1[sec]) - c2.Eval(maps.Baro2[sec])
		gpsDiffs[i] = maps.GPS1[sec] - maps.GPS2[sec]
	}

	points := c1.PointsUsed
	if c2.PointsUsed < points {
		points = c2.PointsUsed
	}
	return Result{
		Baro1:      c1,
		Baro2:      c2,
		PointsUsed: points,
		BaroDiff:   diffStats(baroDiffs),
		GPSDiff:    diffStats(gpsDiffs),
	}
}

func referenceSeries(m track.SecondMaps, shared []int64, mode ReferenceMode) []float64 {
	out := make([]float64, len(shared))
	for i, sec := range shared {
		switch mode {
		case RefGPS1:
			out[i] = m.GPS1[sec]
		case RefGPS2:
			out[i] = m.GPS2[sec]
		default:
			out[i] = 0.5 * (m.GPS1[sec] + m.GPS2[sec])
		}
	}
	return out
}

// filterVerticalSpeed drops window seconds where the reference altitude
// changes faster than limit m/s. Central differences inside the window,
// one-sided at the endpoints. Climb and sink contaminate the fit because the
// baro altitude lags GPS there.
func filterVerticalSpeed(secs []int64, ref []float64, limit float64) ([]int64, []float64) {
	n := len(secs)
	if n < 2 {
		return secs, ref
	}
	keptSecs := make([]int64, 0, n)
	keptRef := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		var vs float64
		switch {
		case i == 0:
			vs = (ref[1] - ref[0]) / float64(secs[1]-secs[0])
		case i == n-1:
			vs = (ref[n-1] - ref[n-2]) / float64(secs[n-1]-secs[n-2])
		default:
			vs = (ref[i+1] - ref[i-1]) / float64(secs[i+1]-secs[i-1])
		}
		if math.Abs(vs) <= limit {
			keptSecs = append(keptSecs, secs[i])
			keptRef = append(keptRef, ref[i])
		}
	}
	return keptSecs, keptRef
}

func values(m map[int64]float64, secs []int64) []float64 {
	out := make([]float64, len(secs))
	for i, sec := range secs {
		out[i] = m[sec]
	}
	return out
}

func diffStats(diffs []float64) DiffStats {
	if len(diffs) == 0 {
		return DiffStats{}
	}
	abs := make([]float64, len(diffs))
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	sort.Float64s(abs)
	return DiffStats{
		Mean:   stat.Mean(diffs, nil),
		MaxAbs: abs[len(abs)-1],
		P95Abs: stat.Quantile(0.95, stat.Empirical, abs, nil),
	}
}
