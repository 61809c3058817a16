package calib

import (
	"math"

	"barocal/isa"
)

// Tuning defaults of the interactive tool.
const (
	DefaultCalibrationSeconds = 60
	DefaultOutlierSigma       = 4.0
)

// Options configures Compute and Build. Use DefaultOptions as the starting
// point; the zero value disables robust fitting.
type Options struct {
	Method             Method        `json:"method"`
	Reference          ReferenceMode `json:"reference"`
	UseAllShared       bool          `json:"useAllShared"`
	CalibrationSeconds int           `json:"calibrationSeconds"` // window prefix length, <=0 selects the default
	Robust             bool          `json:"robust"`
	OutlierSigma       float64       `json:"outlierSigma"`       // pre-fit pruning threshold, <=0 selects the default
	VerticalSpeedLimit float64       `json:"verticalSpeedLimit"` // m/s, NaN or <=0 disables the filter
	ISA                isa.Reference `json:"isa"`
}

// DefaultOptions returns the defaults used by the interactive tool: offset
// calibration over the first 60 shared seconds, robust fitting on, no
// vertical-speed filter, standard atmosphere.
func DefaultOptions() Options {
	return Options{
		Method:             OffsetAlt,
		Reference:          RefAvgGPS,
		CalibrationSeconds: DefaultCalibrationSeconds,
		Robust:             true,
		OutlierSigma:       DefaultOutlierSigma,
		VerticalSpeedLimit: math.NaN(),
	}
}

func (o Options) normalized() Options {
	if o.CalibrationSeconds <= 0 {
		o.CalibrationSeconds = DefaultCalibrationSeconds
	}
	if o.OutlierSigma <= 0 {
		o.OutlierSigma = DefaultOutlierSigma
	}
	return o
}

func (o Options) verticalSpeedFilterOn() bool {
	return !math.IsNaN(o.VerticalSpeedLimit) && o.VerticalSpeedLimit > 0
}
