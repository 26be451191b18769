package astro

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestMoonPosition_London(t *testing.T) {
	pos, err := MoonPosition(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), 51.5074, -0.1278)
	if err != nil {
		t.Fatal(err)
	}

	const tolerance = 0.1
	if math.Abs(pos.AltitudeDeg-14.19) > tolerance {
		t.Errorf("altitude = %.3f°, want 14.19° (±%v)", pos.AltitudeDeg, tolerance)
	}
	if angleDiff(pos.AzimuthDeg, 122.07) > tolerance {
		t.Errorf("azimuth = %.3f°, want 122.07° (±%v)", pos.AzimuthDeg, tolerance)
	}
}

func TestMoonPosition_DistanceRange(t *testing.T) {
	// The series keeps the distance between perigee and apogee values.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	minKm, maxKm := math.Inf(1), math.Inf(-1)
	for h := 0; h < 366*24; h += 6 {
		pos, err := MoonPosition(start.Add(time.Duration(h)*time.Hour), 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		minKm = math.Min(minKm, pos.DistanceKm)
		maxKm = math.Max(maxKm, pos.DistanceKm)
	}
	if minKm < 364000 || minKm > 366000 {
		t.Errorf("min distance = %.0f km, want ~364100", minKm)
	}
	if maxKm < 404000 || maxKm > 406000 {
		t.Errorf("max distance = %.0f km, want ~405900", maxKm)
	}
}

func TestMoonPosition_Refraction(t *testing.T) {
	// Refraction only lifts the Moon. The lift is about 0.48° at and below
	// the horizon and shrinks with altitude.
	lat, lon := -33.8688, 151.2093
	for h := 0; h < 48; h += 3 {
		tm := time.Date(2024, 4, 2, h/2, 30*(h%2), 0, 0, time.UTC)
		pos, err := MoonPosition(tm, lat, lon)
		if err != nil {
			t.Fatal(err)
		}
		d := ToDays(tm)
		c := moonCoords(d)
		geo := radToDeg(toHorizontal(d, lat, lon, c.ra, c.dec).alt)
		lift := pos.AltitudeDeg - geo

		switch {
		case lift < 0:
			t.Errorf("%v: refraction lowered the Moon by %v°", tm, -lift)
		case geo <= 0 && math.Abs(lift-0.484) > 0.005:
			t.Errorf("%v: lift below horizon = %v°, want 0.484°", tm, lift)
		case geo >= 30 && lift > 0.035:
			t.Errorf("%v: lift at %.1f° = %v°, want < 0.035°", tm, geo, lift)
		}
	}
}

func TestMoonPosition_LargeLongitude(t *testing.T) {
	// Longitudes are wrapped before use, so whole turns change nothing even
	// when they are large enough to cost precision unwrapped.
	tm := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	base, err := MoonPosition(tm, 51.5, -0.25)
	if err != nil {
		t.Fatal(err)
	}
	far, err := MoonPosition(tm, 51.5, -0.25+360*1e12)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(far.AltitudeDeg-base.AltitudeDeg) > 1e-6 || angleDiff(far.AzimuthDeg, base.AzimuthDeg) > 1e-6 {
		t.Errorf("far = %+v, base = %+v, want equal", far, base)
	}
}

func TestMoonPosition_Ranges(t *testing.T) {
	start := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 30*24; h += 7 {
		tm := start.Add(time.Duration(h) * time.Hour)
		pos, err := MoonPosition(tm, 64.1466, -21.9426)
		if err != nil {
			t.Fatal(err)
		}
		if pos.AzimuthDeg < 0 || pos.AzimuthDeg >= 360 {
			t.Errorf("%v: azimuth %v outside [0, 360)", tm, pos.AzimuthDeg)
		}
		if pos.RightAscensionDeg < 0 || pos.RightAscensionDeg >= 360 {
			t.Errorf("%v: RA %v outside [0, 360)", tm, pos.RightAscensionDeg)
		}
		// Ecliptic latitude stays within ~5.1°, so declination within ~28.6°.
		if math.Abs(pos.DeclinationDeg) > 29 {
			t.Errorf("%v: declination %v out of lunar range", tm, pos.DeclinationDeg)
		}
		if math.Abs(pos.ParallacticAngleDeg) > 180 {
			t.Errorf("%v: parallactic angle %v", tm, pos.ParallacticAngleDeg)
		}
	}
}

func TestMoonPosition_InvalidArgument(t *testing.T) {
	tm := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, c := range []struct{ lat, lon float64 }{
		{91, 0},
		{math.Inf(-1), 0},
		{0, math.NaN()},
	} {
		if _, err := MoonPosition(tm, c.lat, c.lon); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("MoonPosition(%v, %v) error = %v, want ErrInvalidArgument", c.lat, c.lon, err)
		}
	}
}
