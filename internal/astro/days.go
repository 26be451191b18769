// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
	"time"
)

// Julian Date epochs used by the day-count formulas.
const (
	dayMs   = 1000 * 60 * 60 * 24
	j1970   = 2440588.0
	j2000   = 2451545.0
	secsDay = 86400.0
)

// ToDays returns the number of days since J2000.0 (2000-01-01T12:00Z) for t.
// The fractional part carries the time of day.
func ToDays(t time.Time) float64 {
	ms := float64(t.Unix())*1000 + float64(t.Nanosecond())/1e6
	return ms/dayMs - 0.5 + j1970 - j2000
}

// FromDays converts a J2000 day count back to a UTC instant.
func FromDays(d float64) time.Time {
	return fromJulian(d + j2000)
}

// toJulian returns the Julian Date of t via the Unix epoch.
func toJulian(t time.Time) float64 {
	return ToDays(t) + j2000
}

// fromJulian converts a Julian Date to a UTC instant. Whole seconds and the
// remainder are split so nanosecond truncation stays below a millisecond.
func fromJulian(jd float64) time.Time {
	s := (jd + 0.5 - j1970) * secsDay
	whole := math.Floor(s)
	nsec := math.Round((s - whole) * 1e9)
	return time.Unix(int64(whole), int64(nsec)).UTC()
}

// julianDate calculates the Julian Date for a given time from its calendar
// fields (Meeus, ch. 7). It agrees with toJulian and exists as an independent
// check on the epoch arithmetic.
func julianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// January and February count as months 13 and 14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}
