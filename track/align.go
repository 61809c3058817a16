package track

import "sort"

// SecondMaps indexes the four comparison signals by integer Unix second.
// Each map holds at most one value per second: when several fixes truncate to
// the same second the later one wins. Lossy, but the recorders sample at
// ~1 Hz so sub-second collisions are rare.
type SecondMaps struct {
	GPS1  map[int64]float64
	Baro1 map[int64]float64
	GPS2  map[int64]float64
	Baro2 map[int64]float64
}

// BuildSecondMaps truncates every fix timestamp to a second and files the
// finite altitude values into the per-signal maps.
func BuildSecondMaps(t1, t2 *Track) SecondMaps {
	m := SecondMaps{
		GPS1:  map[int64]float64{},
		Baro1: map[int64]float64{},
		GPS2:  map[int64]float64{},
		Baro2: map[int64]float64{},
	}
	fill(t1, m.GPS1, m.Baro1)
	fill(t2, m.GPS2, m.Baro2)
	return m
}

func fill(t *Track, gps, baro map[int64]float64) {
	for _, f := range t.Fixes {
		sec := f.TimeMs / 1000
		if finite(f.GPSAlt) {
			gps[sec] = f.GPSAlt
		}
		if finite(f.BaroAlt) {
			baro[sec] = f.BaroAlt
		}
	}
}

// SharedSeconds returns the ascending list of seconds present in all four
// maps. An empty result signals no overlap.
func (m SecondMaps) SharedSeconds() []int64 {
	out := make([]int64, 0, len(m.Baro1))
	for sec := range m.Baro1 {
		if _, ok := m.GPS1[sec]; !ok {
			continue
		}
		if _, ok := m.Baro2[sec]; !ok {
			continue
		}
		if _, ok := m.GPS2[sec]; !ok {
			continue
		}
		out = append(out, sec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
