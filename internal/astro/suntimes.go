package astro

import (
	"math"
	"sort"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Threshold altitudes in degrees for the solar events. They match suncalc's
// table.
const (
	AltSunrise      = -0.833 // upper limb on the horizon, standard refraction
	AltSunriseEnd   = -0.3   // lower limb on the horizon
	AltCivil        = -6.0
	AltNautical     = -12.0
	AltAstronomical = -18.0
	AltGoldenHour   = 6.0
)

// j0 is the fractional day offset of mean solar transit at longitude 0.
const j0 = 0.0009

// EventTime is an instant that may not occur on the day in question.
// An unobserved event has Observed == false and a zero Time.
type EventTime struct {
	Time     time.Time
	Observed bool
}

func observedAt(t time.Time) EventTime {
	return EventTime{Time: t, Observed: true}
}

// Format renders the event with layout, or "--" when it does not occur.
func (e EventTime) Format(layout string) string {
	if !e.Observed {
		return "--"
	}
	return e.Time.Format(layout)
}

// SolarTimes holds the named solar events for one solar day. Morning and
// evening members of each pair are either both observed or both absent.
type SolarTimes struct {
	SolarNoon time.Time
	Nadir     time.Time

	Sunrise          EventTime
	Sunset           EventTime
	SunriseEnd       EventTime
	SunsetStart      EventTime
	CivilDawn        EventTime
	CivilDusk        EventTime
	NauticalDawn     EventTime
	NauticalDusk     EventTime
	AstronomicalDawn EventTime // night ends
	AstronomicalDusk EventTime // night begins
	GoldenHourEnd    EventTime // morning golden hour ends
	GoldenHourStart  EventTime // evening golden hour begins

	// PolarDay and PolarNight describe why Sunrise/Sunset are unobserved.
	PolarDay   bool
	PolarNight bool
}

// SunTimes computes solar noon, nadir and the rise/set instants of every
// threshold for the solar day whose transit is nearest t.
//
// That solar day is not always t's civil date: for t near local solar
// midnight the nearest transit can be the previous day's, and the result
// then carries that day's events.
//
// Instants come from suncalc's closed-form approximate transit; accuracy is
// about a minute away from the polar circles. suncalc has no notion of a
// threshold the Sun never reaches, so each pair is first checked against the
// Sun's declination at transit and left unobserved when the hour angle does
// not exist.
func SunTimes(t time.Time, lat, lon float64) (SolarTimes, error) {
	lon, err := checkSite(lat, lon)
	if err != nil {
		return SolarTimes{}, err
	}

	ref := suncalc.GetTimes(t, lat, lon)
	phi := degToRad(lat)
	dec := transitDeclination(ToDays(t), lon)

	s := SolarTimes{
		SolarNoon: ref[suncalc.SolarNoon].Value.UTC(),
		Nadir:     ref[suncalc.Nadir].Value.UTC(),
	}

	pair := func(altDeg float64, rise, set suncalc.DayTimeName) (morning, evening EventTime, cosH float64) {
		cosH = hourAngleCos(degToRad(altDeg), phi, dec)
		if !(cosH >= -1 && cosH <= 1) {
			return EventTime{}, EventTime{}, cosH
		}
		a, b := ref[rise].Value.UTC(), ref[set].Value.UTC()
		if b.Before(a) {
			a, b = b, a
		}
		return observedAt(a), observedAt(b), cosH
	}

	var cosH float64
	s.Sunrise, s.Sunset, cosH = pair(AltSunrise, suncalc.Sunrise, suncalc.Sunset)
	s.PolarDay = cosH < -1
	s.PolarNight = cosH > 1
	s.SunriseEnd, s.SunsetStart, _ = pair(AltSunriseEnd, suncalc.SunriseEnd, suncalc.SunsetStart)
	s.CivilDawn, s.CivilDusk, _ = pair(AltCivil, suncalc.Dawn, suncalc.Dusk)
	s.NauticalDawn, s.NauticalDusk, _ = pair(AltNautical, suncalc.NauticalDawn, suncalc.NauticalDusk)
	s.AstronomicalDawn, s.AstronomicalDusk, _ = pair(AltAstronomical, suncalc.NightEnd, suncalc.Night)
	s.GoldenHourEnd, s.GoldenHourStart, _ = pair(AltGoldenHour, suncalc.GoldenHourEnd, suncalc.GoldenHour)

	return s, nil
}

// transitDeclination is the Sun's declination at the mean transit nearest
// day count d, the declination suncalc derives every hour angle from.
func transitDeclination(d, lon float64) float64 {
	lw := degToRad(-lon)
	n := math.Round(d - j0 - lw/(2*math.Pi))
	ds := j0 + lw/(2*math.Pi) + n
	return declination(eclipticLongitude(solarMeanAnomaly(ds)), 0)
}

// hourAngleCos is the cosine of the hour angle at which a body of
// declination dec reaches altitude h. Values outside [-1, 1] mean the body
// stays above (< -1) or below (> 1) h all day.
func hourAngleCos(h, phi, dec float64) float64 {
	return (math.Sin(h) - math.Sin(phi)*math.Sin(dec)) / (math.Cos(phi) * math.Cos(dec))
}

// SolarEvent names one entry of SolarTimes.
type SolarEvent struct {
	Name string
	EventTime
}

// Events lists every event in chronological order. Unobserved events keep
// their relative order at the end of the list.
func (s SolarTimes) Events() []SolarEvent {
	events := []SolarEvent{
		{"nadir", observedAt(s.Nadir)},
		{"astronomical dawn", s.AstronomicalDawn},
		{"nautical dawn", s.NauticalDawn},
		{"civil dawn", s.CivilDawn},
		{"sunrise", s.Sunrise},
		{"sunrise end", s.SunriseEnd},
		{"golden hour end", s.GoldenHourEnd},
		{"solar noon", observedAt(s.SolarNoon)},
		{"golden hour", s.GoldenHourStart},
		{"sunset start", s.SunsetStart},
		{"sunset", s.Sunset},
		{"civil dusk", s.CivilDusk},
		{"nautical dusk", s.NauticalDusk},
		{"astronomical dusk", s.AstronomicalDusk},
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Observed != b.Observed {
			return a.Observed
		}
		if !a.Observed {
			return false
		}
		return a.Time.Before(b.Time)
	})
	return events
}

// DayLength is the time between sunrise and sunset: 24h during polar day and
// zero during polar night.
func (s SolarTimes) DayLength() time.Duration {
	switch {
	case s.Sunrise.Observed && s.Sunset.Observed:
		return s.Sunset.Time.Sub(s.Sunrise.Time)
	case s.PolarDay:
		return 24 * time.Hour
	default:
		return 0
	}
}

// DaylightProgress returns the fraction of the daylight span elapsed at t,
// clamped to [0, 1]. ok is false when the day has no sunrise and sunset.
func (s SolarTimes) DaylightProgress(t time.Time) (progress float64, ok bool) {
	if !s.Sunrise.Observed || !s.Sunset.Observed {
		return 0, false
	}
	span := s.Sunset.Time.Sub(s.Sunrise.Time)
	if span <= 0 {
		return 0, false
	}
	progress = float64(t.Sub(s.Sunrise.Time)) / float64(span)
	return math.Min(1, math.Max(0, progress)), true
}
