// Package track holds the flight-recorder data model and the time alignment
// used to compare two tracks on a common integer-second timeline.
package track

import "math"

// Fix is one recorded sample. Altitudes are meters; a missing altitude is
// NaN.
type Fix struct {
	TimeMs  int64   // Unix milliseconds
	GPSAlt  float64 // GPS altitude, NaN when absent
	BaroAlt float64 // pressure altitude, NaN when absent
}

// Track is a time-ordered fix sequence plus identifying metadata.
type Track struct {
	Name       string
	Instrument string
	Fixes      []Fix
}

// NoAlt is the missing-altitude marker used when building fixes.
func NoAlt() float64 { return math.NaN() }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// complete reports whether a fix carries both a GPS and a baro altitude.
func (f Fix) complete() bool {
	return finite(f.GPSAlt) && finite(f.BaroAlt)
}

// SharedTimeRange reports the millisecond bounds over which both tracks have
// complete GPS+baro data. ok is false when either track has no complete fix
// or the complete spans do not overlap.
func SharedTimeRange(t1, t2 *Track) (start, end int64, ok bool) {
	s1, e1, ok1 := completeSpan(t1)
	s2, e2, ok2 := completeSpan(t2)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	start = s1
	if s2 > start {
		start = s2
	}
	end = e1
	if e2 < end {
		end = e2
	}
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

func completeSpan(t *Track) (start, end int64, ok bool) {
	for _, f := range t.Fixes {
		if !f.complete() {
			continue
		}
		if !ok {
			start = f.TimeMs
			ok = true
		}
		end = f.TimeMs
	}
	return start, end, ok
}
