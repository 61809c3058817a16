// Package isa converts between geometric altitude and barometric pressure
// using the International Standard Atmosphere model.
package isa

import "math"

// Physical constants of the 1976 standard atmosphere.
const (
	g0   = 9.80665   // gravitational acceleration, m/s^2
	mAir = 0.0289644 // molar mass of dry air, kg/mol
	rGas = 8.3144598 // universal gas constant, J/(mol*K)
)

// Standard sea-level reference values.
const (
	StdPressure    = 101325.0 // Pa
	StdTemperature = 288.15   // K
	StdLapseRate   = 0.0065   // K/m
)

// Reference is a sea-level reference state. The zero value selects the
// standard atmosphere.
type Reference struct {
	Pressure    float64 `json:"pressure,omitempty"`    // Pa
	Temperature float64 `json:"temperature,omitempty"` // K
	LapseRate   float64 `json:"lapseRate,omitempty"`   // K/m
}

func (r Reference) filled() Reference {
	if r.Pressure == 0 {
		r.Pressure = StdPressure
	}
	if r.Temperature == 0 {
		r.Temperature = StdTemperature
	}
	if r.LapseRate == 0 {
		r.LapseRate = StdLapseRate
	}
	return r
}

// exponent n = g0*M/(R*L), ~5.2559 for the standard lapse rate.
func (r Reference) exponent() float64 {
	return g0 * mAir / (rGas * r.LapseRate)
}

// PressureAt converts geometric altitude (m) to pressure (Pa). The base of
// the power term is floored at 1e-8 so extreme altitudes never raise a
// negative base; NaN inputs propagate per IEEE 754.
func (r Reference) PressureAt(h float64) float64 {
	r = r.filled()
	base := 1 - r.LapseRate*h/r.Temperature
	if base < 1e-8 {
		base = 1e-8
	}
	return r.Pressure * math.Pow(base, r.exponent())
}

// AltitudeAt converts pressure (Pa) back to geometric altitude (m). The
// pressure ratio is floored at 1e-12 to keep non-positive pressures out of
// the power term.
func (r Reference) AltitudeAt(p float64) float64 {
	r = r.filled()
	ratio := p / r.Pressure
	if ratio < 1e-12 {
		ratio = 1e-12
	}
	return (r.Temperature / r.LapseRate) * (1 - math.Pow(ratio, 1/r.exponent()))
}
