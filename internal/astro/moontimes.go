package astro

import (
	"time"
)

// MoonHorizonDeg is the refracted lunar altitude treated as rise or set. It
// accounts for the Moon's parallax and semi-diameter.
const MoonHorizonDeg = 0.133

const (
	moonSamplesPerDay = 48 // 30 minute steps
	maxBisections     = 10
	bisectTolDays     = 0.0001
)

// LunarTimes describes the Moon's visibility over one calendar day.
//
// Exactly one of these holds: at least one of Rise/Set is observed,
// AlwaysUp is set, or AlwaysDown is set. Because the lunar day lasts about
// 24h50m, a day can contain a rise without a set or the reverse. When the
// Moon crosses the horizon twice in the same direction, the first crossing
// is reported.
type LunarTimes struct {
	Rise       EventTime
	Set        EventTime
	AlwaysUp   bool
	AlwaysDown bool

	// Transit is the time of highest altitude inside the day, observed only
	// when that maximum is above the horizon and not at either window edge.
	Transit        EventTime
	MaxAltitudeDeg float64
}

// MoonTimes finds moonrise and moonset for the calendar day containing t,
// where the day runs from midnight in t's location for 24 hours.
//
// The refracted altitude reported by MoonPosition is sampled every 30
// minutes; each bracketed horizon crossing is refined by bisection.
func MoonTimes(t time.Time, lat, lon float64) (LunarTimes, error) {
	lon, err := checkSite(lat, lon)
	if err != nil {
		return LunarTimes{}, err
	}
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return moonTimesFrom(ToDays(start), lat, lon), nil
}

// moonTimesFrom searches the 24 hours starting at day count d0.
func moonTimesFrom(d0, lat, lon float64) LunarTimes {
	const step = 1.0 / moonSamplesPerDay

	above := func(d float64) float64 {
		return moonAltitude(FromDays(d), lat, lon) - MoonHorizonDeg
	}

	samples := make([]float64, moonSamplesPerDay+1)
	for i := range samples {
		samples[i] = above(d0 + float64(i)*step)
	}

	var lt LunarTimes
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		if (prev < 0) == (cur < 0) {
			continue
		}
		x := bisect(above, d0+float64(i-1)*step, d0+float64(i)*step, prev)
		if cur > prev {
			if !lt.Rise.Observed {
				lt.Rise = observedAt(FromDays(x))
			}
		} else if !lt.Set.Observed {
			lt.Set = observedAt(FromDays(x))
		}
	}

	if !lt.Rise.Observed && !lt.Set.Observed {
		lt.AlwaysUp = samples[0] >= 0
		lt.AlwaysDown = !lt.AlwaysUp
	}

	maxIdx := 0
	for i, v := range samples {
		if v > samples[maxIdx] {
			maxIdx = i
		}
	}
	lt.MaxAltitudeDeg = samples[maxIdx] + MoonHorizonDeg
	if maxIdx > 0 && maxIdx < len(samples)-1 && samples[maxIdx] >= 0 {
		off, peak := refineMax(samples[maxIdx-1], samples[maxIdx], samples[maxIdx+1])
		lt.Transit = observedAt(FromDays(d0 + (float64(maxIdx)+off)*step))
		lt.MaxAltitudeDeg = peak + MoonHorizonDeg
	}

	return lt
}

// bisect narrows [lo, hi] around a sign change of f, where flo = f(lo).
func bisect(f func(float64) float64, lo, hi, flo float64) float64 {
	for i := 0; i < maxBisections && hi-lo > bisectTolDays; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if (fm < 0) == (flo < 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// refineMax fits a parabola through three equally spaced samples and
// returns the offset of its vertex from the middle sample (in steps,
// clamped to [-1, 1]) and the value there.
func refineMax(y0, y1, y2 float64) (offset, peak float64) {
	// Parabola y = a t^2 + b t + c with t = -1, 0, +1
	c := y1
	a := (y0+y2)/2 - c
	b := (y2 - y0) / 2

	// Only a downward-opening parabola has a maximum
	if a >= 0 {
		return 0, y1
	}

	offset = clamp(-b/(2*a), -1, 1)
	return offset, a*offset*offset + b*offset + c
}
