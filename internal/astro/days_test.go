package astro

import (
	"math"
	"testing"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/julian"
)

func TestToDays_Epoch(t *testing.T) {
	epoch := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := ToDays(epoch); math.Abs(got) > 1e-9 {
		t.Errorf("ToDays(J2000) = %v, want 0", got)
	}

	next := epoch.Add(36 * time.Hour)
	if got := ToDays(next); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("ToDays(J2000+36h) = %v, want 1.5", got)
	}
}

func TestFromDays_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
	}{
		{"J2000", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"sub-second", time.Date(2024, 3, 20, 3, 6, 7, 123456789, time.UTC)},
		{"unix epoch", time.Unix(0, 0).UTC()},
		{"far past", time.Date(1850, 7, 4, 18, 30, 0, 0, time.UTC)},
		{"far future", time.Date(2199, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"with offset", time.Date(2024, 6, 1, 8, 0, 0, 0, time.FixedZone("UTC-7", -7*3600))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDays(ToDays(tt.time))
			diff := got.Sub(tt.time)
			if diff < 0 {
				diff = -diff
			}
			if diff > time.Millisecond {
				t.Errorf("FromDays(ToDays(%v)) = %v, off by %v", tt.time, got, diff)
			}
			if got.Location() != time.UTC {
				t.Errorf("FromDays() location = %v, want UTC", got.Location())
			}
		})
	}
}

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{"J2000 epoch", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"Sputnik launch (Meeus 7.a)", time.Date(1957, 10, 4, 19, 26, 24, 0, time.UTC), 2436116.31},
		{"February (month shift)", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 2460369.5},
	}

	const tolerance = 1e-6

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := julianDate(tt.time)
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("julianDate() = %v, want %v (±%v)", got, tt.want, tolerance)
			}
			if epoch := toJulian(tt.time); math.Abs(epoch-got) > tolerance {
				t.Errorf("toJulian() = %v, julianDate() = %v", epoch, got)
			}
		})
	}
}

func TestToJulian_MatchesMeeus(t *testing.T) {
	times := []time.Time{
		time.Date(1987, 4, 10, 19, 21, 0, 0, time.UTC),
		time.Date(2013, 11, 3, 6, 0, 0, 0, time.UTC),
		time.Date(2031, 8, 17, 23, 45, 30, 0, time.UTC),
	}

	for _, tm := range times {
		want := julian.TimeToJD(tm)
		if got := toJulian(tm); math.Abs(got-want) > 1e-6 {
			t.Errorf("toJulian(%v) = %v, meeus = %v", tm, got, want)
		}
		y, m, d := julian.JDToCalendar(toJulian(tm))
		if y != tm.Year() || m != int(tm.Month()) || int(d) != tm.Day() {
			t.Errorf("JDToCalendar(toJulian(%v)) = %d-%d-%v", tm, y, m, d)
		}
	}
}
