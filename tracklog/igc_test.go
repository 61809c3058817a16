package tracklog

import (
	"math"
	"strings"
	"testing"
	"time"
)

const sampleIGC = `AXCT7G2 Flymaster
HFDTE250826
HFPLTPILOT:TEST PILOT
B1015304712345N01834567EA0102301067
B1015314712346N01834568EA0102401068
B1015324712347N01834569EV0102500000
B101533471234
B1015344712349N01834571EA-001201069
`

func TestParseIGC(t *testing.T) {
	tr, err := ParseIGC(strings.NewReader(sampleIGC), "sample.igc")
	if err != nil {
		t.Fatalf("ParseIGC: %v", err)
	}
	if tr.Instrument != "XCT7G2 Flymaster" {
		t.Fatalf("instrument = %q", tr.Instrument)
	}
	// The short line is skipped; four B records survive.
	if len(tr.Fixes) != 4 {
		t.Fatalf("fixes = %d, want 4", len(tr.Fixes))
	}

	want := time.Date(2026, 8, 25, 10, 15, 30, 0, time.UTC).UnixMilli()
	if tr.Fixes[0].TimeMs != want {
		t.Fatalf("first fix time = %d, want %d", tr.Fixes[0].TimeMs, want)
	}
	if tr.Fixes[0].BaroAlt != 1023 || tr.Fixes[0].GPSAlt != 1067 {
		t.Fatalf("first fix altitudes = %v/%v", tr.Fixes[0].BaroAlt, tr.Fixes[0].GPSAlt)
	}
	// Validity 'V': baro kept, GPS altitude missing.
	if tr.Fixes[2].BaroAlt != 1025 || !math.IsNaN(tr.Fixes[2].GPSAlt) {
		t.Fatalf("2D fix altitudes = %v/%v", tr.Fixes[2].BaroAlt, tr.Fixes[2].GPSAlt)
	}
	// Negative pressure altitude is legal below the 1013 isobar.
	if tr.Fixes[3].BaroAlt != -12 {
		t.Fatalf("negative baro alt = %v, want -12", tr.Fixes[3].BaroAlt)
	}
}

func TestParseIGCMidnightRollover(t *testing.T) {
	igc := "AXYZ123\n" +
		"HFDTEDATE:311225,01\n" +
		"B2359594712345N01834567EA0100001000\n" +
		"B0000014712345N01834567EA0100101001\n"
	tr, err := ParseIGC(strings.NewReader(igc), "night.igc")
	if err != nil {
		t.Fatalf("ParseIGC: %v", err)
	}
	if len(tr.Fixes) != 2 {
		t.Fatalf("fixes = %d", len(tr.Fixes))
	}
	delta := tr.Fixes[1].TimeMs - tr.Fixes[0].TimeMs
	if delta != 2000 {
		t.Fatalf("rollover delta = %d ms, want 2000", delta)
	}
	want := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC).UnixMilli()
	if tr.Fixes[0].TimeMs != want {
		t.Fatalf("pre-midnight time = %d, want %d", tr.Fixes[0].TimeMs, want)
	}
}

func TestParseIGCNoFixes(t *testing.T) {
	if _, err := ParseIGC(strings.NewReader("AXYZ123\nHFDTE010100\n"), "empty.igc"); err == nil {
		t.Fatal("expected error for IGC file without B records")
	}
}
