package astro

import (
	"math"
	"testing"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func TestSunTimes_SolarNoonNOAA(t *testing.T) {
	// NOAA gives 12:11:37 PST for Cupertino on 2024-01-01.
	times, err := SunTimes(time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC), 37.3229978, -122.0321823)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 1, 1, 20, 11, 37, 0, time.UTC)
	if diff := absDuration(times.SolarNoon.Sub(want)); diff > 3*time.Minute {
		t.Errorf("SolarNoon = %v, want %v (±3m), off by %v", times.SolarNoon, want, diff)
	}
	if diff := times.SolarNoon.Sub(times.Nadir); absDuration(diff-12*time.Hour) > time.Second {
		t.Errorf("SolarNoon - Nadir = %v, want 12h", diff)
	}
}

func TestSunTimes_MatchesGoSunrise(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
		date     time.Time
	}{
		{"Cupertino winter", 37.3229978, -122.0321823, time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)},
		{"Oslo summer", 59.9139, 10.7522, time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)},
		{"Buenos Aires autumn", -34.6037, -58.3816, time.Date(2023, 4, 15, 15, 0, 0, 0, time.UTC)},
		{"Singapore", 1.3521, 103.8198, time.Date(2025, 9, 1, 5, 0, 0, 0, time.UTC)},
	}

	const tolerance = 3 * time.Minute

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			times, err := SunTimes(c.date, c.lat, c.lon)
			if err != nil {
				t.Fatal(err)
			}
			rise, set := sunrise.SunriseSunset(c.lat, c.lon, c.date.Year(), c.date.Month(), c.date.Day())

			if !times.Sunrise.Observed || !times.Sunset.Observed {
				t.Fatalf("sunrise/sunset not observed: %+v", times)
			}
			if d := absDuration(times.Sunrise.Time.Sub(rise)); d > tolerance {
				t.Errorf("Sunrise = %v, go-sunrise = %v, off by %v", times.Sunrise.Time, rise.UTC(), d)
			}
			if d := absDuration(times.Sunset.Time.Sub(set)); d > tolerance {
				t.Errorf("Sunset = %v, go-sunrise = %v, off by %v", times.Sunset.Time, set.UTC(), d)
			}
		})
	}
}

func TestSunTimes_LargeLongitude(t *testing.T) {
	tm := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	base, err := SunTimes(tm, 40, -74)
	if err != nil {
		t.Fatal(err)
	}
	far, err := SunTimes(tm, 40, -74+360*1e12)
	if err != nil {
		t.Fatal(err)
	}

	checks := []struct {
		name      string
		got, want time.Time
	}{
		{"solar noon", far.SolarNoon, base.SolarNoon},
		{"sunrise", far.Sunrise.Time, base.Sunrise.Time},
		{"sunset", far.Sunset.Time, base.Sunset.Time},
	}
	for _, c := range checks {
		if d := absDuration(c.got.Sub(c.want)); d > time.Millisecond {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestSunTimes_UnobservedHaveNoInstant(t *testing.T) {
	// Where a threshold is never reached the event carries a zero time
	// rather than whatever the transit formula produces for it.
	s, err := SunTimes(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 78.2232, 15.6267)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []EventTime{s.Sunrise, s.Sunset, s.CivilDawn, s.AstronomicalDusk, s.GoldenHourStart} {
		if e.Observed || !e.Time.IsZero() {
			t.Errorf("event = %+v, want unobserved with zero time", e)
		}
	}
	// The Sun stays above 11° all day, so even the golden hour is absent.
	if s.GoldenHourEnd.Observed || !s.PolarDay {
		t.Errorf("GoldenHourEnd = %+v, PolarDay = %v", s.GoldenHourEnd, s.PolarDay)
	}
}

func TestSunTimes_Ordering(t *testing.T) {
	// Away from the polar circles every threshold occurs and the events nest
	// around solar noon.
	dates := []time.Time{
		time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 22, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC),
	}

	for lat := -45.0; lat <= 45; lat += 15 {
		for lon := -180.0; lon < 180; lon += 60 {
			for _, date := range dates {
				s, err := SunTimes(date, lat, lon)
				if err != nil {
					t.Fatal(err)
				}
				seq := []EventTime{
					s.AstronomicalDawn, s.NauticalDawn, s.CivilDawn, s.Sunrise, s.SunriseEnd,
					s.GoldenHourEnd, observedAt(s.SolarNoon), s.GoldenHourStart,
					s.SunsetStart, s.Sunset, s.CivilDusk, s.NauticalDusk, s.AstronomicalDusk,
				}
				for i, e := range seq {
					if !e.Observed {
						t.Fatalf("lat=%v lon=%v %v: event %d unobserved", lat, lon, date, i)
					}
					if i > 0 && !e.Time.After(seq[i-1].Time) {
						t.Errorf("lat=%v lon=%v %v: event %d (%v) not after event %d (%v)",
							lat, lon, date, i, e.Time, i-1, seq[i-1].Time)
					}
				}
				if s.PolarDay || s.PolarNight {
					t.Errorf("lat=%v: unexpected polar flags %+v", lat, s)
				}
			}
		}
	}
}

func TestSunTimes_EquatorEquinox(t *testing.T) {
	s, err := SunTimes(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 20, 12, 8, 41, 0, time.UTC)
	if d := absDuration(s.SolarNoon.Sub(want)); d > time.Minute {
		t.Errorf("SolarNoon = %v, want %v", s.SolarNoon, want)
	}
	// About twelve hours of daylight plus the refraction allowance.
	if dl := s.DayLength(); dl < 12*time.Hour || dl > 12*time.Hour+15*time.Minute {
		t.Errorf("DayLength() = %v, want ~12h07m", dl)
	}
}

func TestSunTimes_PolarDay(t *testing.T) {
	s, err := SunTimes(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 80, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !s.PolarDay || s.PolarNight {
		t.Errorf("PolarDay = %v, PolarNight = %v, want true/false", s.PolarDay, s.PolarNight)
	}
	pairs := [][2]EventTime{
		{s.Sunrise, s.Sunset},
		{s.SunriseEnd, s.SunsetStart},
		{s.CivilDawn, s.CivilDusk},
		{s.NauticalDawn, s.NauticalDusk},
		{s.AstronomicalDawn, s.AstronomicalDusk},
		{s.GoldenHourEnd, s.GoldenHourStart},
	}
	for i, p := range pairs {
		if p[0].Observed || p[1].Observed {
			t.Errorf("pair %d observed during polar day: %+v", i, p)
		}
		if !p[0].Time.IsZero() || !p[1].Time.IsZero() {
			t.Errorf("pair %d: unobserved events must carry zero time", i)
		}
	}
	if s.DayLength() != 24*time.Hour {
		t.Errorf("DayLength() = %v, want 24h", s.DayLength())
	}
	if _, ok := s.DaylightProgress(s.SolarNoon); ok {
		t.Error("DaylightProgress() ok = true during polar day")
	}
}

func TestSunTimes_PolarNight(t *testing.T) {
	s, err := SunTimes(time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC), 80, 15)
	if err != nil {
		t.Fatal(err)
	}
	if s.PolarDay || !s.PolarNight {
		t.Errorf("PolarDay = %v, PolarNight = %v, want false/true", s.PolarDay, s.PolarNight)
	}
	if s.Sunrise.Observed || s.Sunset.Observed {
		t.Error("sunrise observed during polar night")
	}
	if s.DayLength() != 0 {
		t.Errorf("DayLength() = %v, want 0", s.DayLength())
	}
}

func TestSunTimes_WhiteNight(t *testing.T) {
	// Helsinki-ish at midsummer: the Sun sets but never reaches -18°.
	s, err := SunTimes(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 60, 25)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Sunrise.Observed || !s.Sunset.Observed {
		t.Fatal("sunrise/sunset should occur at 60°N")
	}
	if s.AstronomicalDawn.Observed || s.AstronomicalDusk.Observed {
		t.Error("astronomical twilight pair should be absent")
	}
	if s.PolarDay || s.PolarNight {
		t.Error("polar flags must be unset when the Sun rises and sets")
	}

	wantRise := time.Date(2024, 6, 21, 0, 57, 0, 0, time.UTC)
	wantSet := time.Date(2024, 6, 21, 19, 49, 0, 0, time.UTC)
	if d := absDuration(s.Sunrise.Time.Sub(wantRise)); d > 2*time.Minute {
		t.Errorf("Sunrise = %v, want ~%v", s.Sunrise.Time, wantRise)
	}
	if d := absDuration(s.Sunset.Time.Sub(wantSet)); d > 2*time.Minute {
		t.Errorf("Sunset = %v, want ~%v", s.Sunset.Time, wantSet)
	}
}

func TestSunTimes_RiseAltitude(t *testing.T) {
	// The declination is taken at transit, so the altitude at the computed
	// sunrise is only close to -0.833°.
	lat, lon := 48.8566, 2.3522
	s, err := SunTimes(time.Date(2024, 10, 5, 12, 0, 0, 0, time.UTC), lat, lon)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []EventTime{s.Sunrise, s.Sunset} {
		pos, err := SunPosition(e.Time, lat, lon)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(pos.AltitudeDeg-AltSunrise) > 0.25 {
			t.Errorf("altitude at %v = %.3f°, want %.3f°", e.Time, pos.AltitudeDeg, AltSunrise)
		}
	}
}

func TestSolarTimes_Events(t *testing.T) {
	s, err := SunTimes(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 60, 25)
	if err != nil {
		t.Fatal(err)
	}
	events := s.Events()
	if len(events) != 14 {
		t.Fatalf("len(Events()) = %d, want 14", len(events))
	}

	seenUnobserved := false
	for i, e := range events {
		if !e.Observed {
			seenUnobserved = true
			continue
		}
		if seenUnobserved {
			t.Errorf("observed event %q after an unobserved one", e.Name)
		}
		if i > 0 && events[i-1].Observed && e.Time.Before(events[i-1].Time) {
			t.Errorf("event %q out of order", e.Name)
		}
	}
	if events[len(events)-1].Observed {
		t.Error("expected astronomical twilight at the end, unobserved")
	}
}

func TestSolarTimes_DaylightProgress(t *testing.T) {
	s, err := SunTimes(time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		at   time.Time
		want float64
	}{
		{"before sunrise", s.Sunrise.Time.Add(-time.Hour), 0},
		{"at sunrise", s.Sunrise.Time, 0},
		{"solar noon", s.SolarNoon, 0.5},
		{"after sunset", s.Sunset.Time.Add(time.Hour), 1},
	}
	for _, tt := range tests {
		got, ok := s.DaylightProgress(tt.at)
		if !ok {
			t.Fatalf("%s: ok = false", tt.name)
		}
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("%s: DaylightProgress() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEventTime_Format(t *testing.T) {
	e := observedAt(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	if got := e.Format("15:04"); got != "03:04" {
		t.Errorf("Format() = %q, want 03:04", got)
	}
	if got := (EventTime{}).Format("15:04"); got != "--" {
		t.Errorf("unobserved Format() = %q, want --", got)
	}
}
