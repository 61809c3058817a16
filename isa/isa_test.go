package isa

import (
	"math"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	var ref Reference
	for h := -500.0; h <= 9000.0; h += 12.5 {
		p := ref.PressureAt(h)
		back := ref.AltitudeAt(p)
		if math.Abs(back-h) > 1e-6 {
			t.Fatalf("round trip at %.1f m: got %.9f", h, back)
		}
	}
}

func TestSeaLevelPressure(t *testing.T) {
	var ref Reference
	if p := ref.PressureAt(0); math.Abs(p-StdPressure) > 1e-9 {
		t.Fatalf("sea level pressure: got %f", p)
	}
	if h := ref.AltitudeAt(StdPressure); math.Abs(h) > 1e-9 {
		t.Fatalf("sea level altitude: got %f", h)
	}
}

func TestCustomReference(t *testing.T) {
	ref := Reference{Pressure: 100000, Temperature: 290, LapseRate: 0.0065}
	h := 1500.0
	if back := ref.AltitudeAt(ref.PressureAt(h)); math.Abs(back-h) > 1e-6 {
		t.Fatalf("custom reference round trip: got %f", back)
	}
}

func TestGuards(t *testing.T) {
	var ref Reference
	// Way above the model ceiling the power base is floored, not negative.
	if p := ref.PressureAt(1e6); math.IsNaN(p) || p < 0 {
		t.Fatalf("extreme altitude pressure: got %f", p)
	}
	// Non-positive pressure stays finite through the floor on the ratio.
	if h := ref.AltitudeAt(-10); math.IsNaN(h) || math.IsInf(h, 0) {
		t.Fatalf("negative pressure altitude: got %f", h)
	}
}

func TestNaNPropagates(t *testing.T) {
	var ref Reference
	if !math.IsNaN(ref.PressureAt(math.NaN())) {
		t.Fatal("PressureAt(NaN) should be NaN")
	}
	if !math.IsNaN(ref.AltitudeAt(math.NaN())) {
		t.Fatal("AltitudeAt(NaN) should be NaN")
	}
}
