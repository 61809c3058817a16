package calib

import "fmt"

// Method is the closed set of correction models the builder can fit.
type Method int

const (
	OffsetAlt    Method = iota // constant offset in altitude
	LinearAlt                  // slope + offset in altitude
	QuadraticAlt               // quadratic in altitude
	OffsetPress                // constant offset in pressure
	ScalePress                 // multiplicative pressure scale
	LinearPress                // slope + offset in pressure

	methodCount // keep last
)

var methodNames = [methodCount]string{
	OffsetAlt:    "offset-alt-1pt",
	LinearAlt:    "linear-alt",
	QuadraticAlt: "quadratic-alt",
	OffsetPress:  "offset-press",
	ScalePress:   "scale-press-1pt",
	LinearPress:  "linear-press",
}

// Methods returns all supported methods in declaration order.
func Methods() []Method {
	ms := make([]Method, methodCount)
	for i := range ms {
		ms[i] = Method(i)
	}
	return ms
}

func (m Method) String() string {
	if m < 0 || m >= methodCount {
		return fmt.Sprintf("method(%d)", int(m))
	}
	return methodNames[m]
}

// MarshalText serialises a Method as its name so any JSON encoder emits the
// method tags the UI understands.
func (m Method) MarshalText() ([]byte, error) {
	if m < 0 || m >= methodCount {
		return nil, fmt.Errorf("invalid calibration method %d", int(m))
	}
	return []byte(methodNames[m]), nil
}

func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMethod maps a method name to its enum value.
func ParseMethod(s string) (Method, error) {
	for m := Method(0); m < methodCount; m++ {
		if methodNames[m] == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown calibration method %q", s)
}

// ReferenceMode selects which GPS signal(s) form the reference altitude.
type ReferenceMode int

const (
	RefAvgGPS ReferenceMode = iota // mean of both GPS altitudes
	RefGPS1
	RefGPS2

	referenceModeCount // keep last
)

var referenceModeNames = [referenceModeCount]string{
	RefAvgGPS: "avg-gps",
	RefGPS1:   "gps1",
	RefGPS2:   "gps2",
}

func (r ReferenceMode) String() string {
	if r < 0 || r >= referenceModeCount {
		return fmt.Sprintf("reference(%d)", int(r))
	}
	return referenceModeNames[r]
}

func (r ReferenceMode) MarshalText() ([]byte, error) {
	if r < 0 || r >= referenceModeCount {
		return nil, fmt.Errorf("invalid reference mode %d", int(r))
	}
	return []byte(referenceModeNames[r]), nil
}

func (r *ReferenceMode) UnmarshalText(b []byte) error {
	v, err := ParseReferenceMode(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseReferenceMode maps a reference-mode name to its enum value.
func ParseReferenceMode(s string) (ReferenceMode, error) {
	for r := ReferenceMode(0); r < referenceModeCount; r++ {
		if referenceModeNames[r] == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown reference mode %q", s)
}
