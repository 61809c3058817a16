// Package tracklog reads flight-recorder log files into track values. It
// understands IGC files and NMEA logs (GGA for GPS altitude, LXWP0 for baro
// altitude).
package tracklog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"barocal/track"
)

// IGC B record layout (fixed columns):
//
//	B HHMMSS DDMMmmmN DDDMMmmmE V PPPPP GGGGG ...
//
// columns 25-29 are pressure altitude, 30-34 GPS altitude, both meters.
const igcBRecordMinLen = 35

// ParseIGC reads an IGC file. The HFDTE header supplies the date; B records
// supply the fixes. GPS altitude is taken only from '3D fix' records
// (validity 'A'); pressure altitude is taken from every record that carries
// a numeric value.
func ParseIGC(r io.Reader, name string) (*track.Track, error) {
	t := &track.Track{Name: name}
	// A missing date header is legal; fixes then align relative to the epoch.
	date := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	lastSecOfDay := -1
	dayOffset := 0

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		switch line[0] {
		case 'A':
			// Manufacturer + serial record, first line of every IGC file.
			if t.Instrument == "" && len(line) > 1 {
				t.Instrument = strings.TrimSpace(line[1:])
			}
		case 'H':
			if d, ok := parseDateHeader(line); ok {
				date = d
			}
		case 'B':
			if len(line) < igcBRecordMinLen {
				continue
			}
			sec, err := parseTimeOfDay(line[1:7])
			if err != nil {
				return nil, fmt.Errorf("igc %s line %d: %w", name, lineNo, err)
			}
			// Midnight rollover: time-of-day going backwards means the
			// next UTC day.
			if sec < lastSecOfDay {
				dayOffset++
			}
			lastSecOfDay = sec

			fix := track.Fix{
				TimeMs:  date.AddDate(0, 0, dayOffset).UnixMilli() + int64(sec)*1000,
				GPSAlt:  track.NoAlt(),
				BaroAlt: track.NoAlt(),
			}
			if v, err := strconv.Atoi(line[25:30]); err == nil {
				fix.BaroAlt = float64(v)
			}
			if line[24] == 'A' {
				if v, err := strconv.Atoi(line[30:35]); err == nil {
					fix.GPSAlt = float64(v)
				}
			}
			t.Fixes = append(t.Fixes, fix)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("igc %s: %w", name, err)
	}
	if len(t.Fixes) == 0 {
		return nil, fmt.Errorf("igc %s: no B records", name)
	}
	return t, nil
}

// parseDateHeader handles both "HFDTEDDMMYY" and "HFDTEDATE:DDMMYY,NN".
func parseDateHeader(line string) (time.Time, bool) {
	if !strings.HasPrefix(line, "HFDTE") {
		return time.Time{}, false
	}
	rest := strings.TrimPrefix(line[5:], "DATE:")
	if len(rest) < 6 {
		return time.Time{}, false
	}
	dd, err1 := strconv.Atoi(rest[0:2])
	mm, err2 := strconv.Atoi(rest[2:4])
	yy, err3 := strconv.Atoi(rest[4:6])
	if err1 != nil || err2 != nil || err3 != nil || mm < 1 || mm > 12 || dd < 1 || dd > 31 {
		return time.Time{}, false
	}
	return time.Date(2000+yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC), true
}

func parseTimeOfDay(hhmmss string) (int, error) {
	hh, err1 := strconv.Atoi(hhmmss[0:2])
	mm, err2 := strconv.Atoi(hhmmss[2:4])
	ss, err3 := strconv.Atoi(hhmmss[4:6])
	if err1 != nil || err2 != nil || err3 != nil || hh > 24 || mm > 59 || ss > 59 {
		return 0, fmt.Errorf("bad time field %q", hhmmss)
	}
	return hh*3600 + mm*60 + ss, nil
}
