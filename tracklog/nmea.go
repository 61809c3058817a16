package tracklog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"

	"barocal/track"
)

// LXWP0 is the proprietary vario sentence emitted by LX/Naviter-style
// instruments; field 2 is barometric altitude in meters.
type LXWP0 struct {
	nmea.BaseSentence
	BaroAltitude float64
}

// go-nmea splits the "LXWP0" prefix into talker "LX" and sentence type
// "WP0"; parsers register under the type.
const typeLXWP0 = "WP0"

func init() {
	nmea.MustRegisterParser(typeLXWP0, func(s nmea.BaseSentence) (nmea.Sentence, error) {
		p := nmea.NewParser(s)
		return LXWP0{
			BaseSentence: s,
			BaroAltitude: p.Float64(2, "baro altitude"),
		}, p.Err()
	})
}

// ParseNMEA reads an NMEA log. GGA sentences carry the GPS altitude and the
// time of day, RMC sentences carry the date, LXWP0 sentences carry the baro
// altitude and attach to the most recent GGA fix. Unparseable lines are
// skipped, matching how receivers emit partial sentences.
func ParseNMEA(r io.Reader, name string) (*track.Track, error) {
	t := &track.Track{Name: name}
	date := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	lastSecOfDay := -1
	dayOffset := 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || !strings.HasPrefix(line, "$") {
			continue
		}
		sentence, err := nmea.Parse(line)
		if err != nil {
			continue
		}
		switch sentence.DataType() {
		case nmea.TypeRMC:
			m := sentence.(nmea.RMC)
			if m.Date.Valid {
				date = time.Date(2000+m.Date.YY, time.Month(m.Date.MM), m.Date.DD, 0, 0, 0, 0, time.UTC)
				dayOffset = 0
			}
		case nmea.TypeGGA:
			m := sentence.(nmea.GGA)
			sec := m.Time.Hour*3600 + m.Time.Minute*60 + m.Time.Second
			if sec < lastSecOfDay {
				dayOffset++
			}
			lastSecOfDay = sec
			fix := track.Fix{
				TimeMs:  date.AddDate(0, 0, dayOffset).UnixMilli() + int64(sec)*1000 + int64(m.Time.Millisecond),
				GPSAlt:  track.NoAlt(),
				BaroAlt: track.NoAlt(),
			}
			if m.FixQuality != "0" {
				fix.GPSAlt = m.Altitude
			}
			t.Fixes = append(t.Fixes, fix)
		case typeLXWP0:
			m := sentence.(LXWP0)
			if n := len(t.Fixes); n > 0 {
				t.Fixes[n-1].BaroAlt = m.BaroAltitude
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("nmea %s: %w", name, err)
	}
	if len(t.Fixes) == 0 {
		return nil, fmt.Errorf("nmea %s: no GGA sentences", name)
	}
	return t, nil
}
