package astro

import (
	"math"
	"time"
)

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
	Name   string  // Optional name for the site
}

// NewObserver validates the coordinates and returns an Observer with the
// longitude normalized to (-180, 180].
func NewObserver(name string, latDeg, lonDeg float64) (Observer, error) {
	if err := validateLatLon(latDeg, lonDeg); err != nil {
		return Observer{}, err
	}
	return Observer{LatDeg: latDeg, LonDeg: NormalizeLongitude(lonDeg), Name: name}, nil
}

// checkSite validates lat and lon and returns lon wrapped to (-180, 180].
// Every exported computation enters through it.
func checkSite(lat, lon float64) (float64, error) {
	if err := validateLatLon(lat, lon); err != nil {
		return 0, err
	}
	return NormalizeLongitude(lon), nil
}

// Validate reports whether the observer lies in the engine's input domain.
func (o Observer) Validate() error {
	return validateLatLon(o.LatDeg, o.LonDeg)
}

// NormalizeLongitude wraps a longitude to (-180, 180]. Values outside that
// range are equivalent modulo 360.
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon > 180 {
		lon -= 360
	} else if lon <= -180 {
		lon += 360
	}
	return lon
}

// obliquity is the mean obliquity of the ecliptic at J2000. It is held fixed:
// there is no precession or nutation term, so positions drift slowly for
// dates far from 2000.
var obliquity = degToRad(23.4397)

// rightAscension converts ecliptic longitude l and latitude b (radians).
func rightAscension(l, b float64) float64 {
	return math.Atan2(math.Sin(l)*math.Cos(obliquity)-math.Tan(b)*math.Sin(obliquity), math.Cos(l))
}

// declination converts ecliptic longitude l and latitude b (radians).
func declination(l, b float64) float64 {
	return math.Asin(math.Sin(b)*math.Cos(obliquity) + math.Cos(b)*math.Sin(obliquity)*math.Sin(l))
}

// siderealTime returns the local sidereal angle in radians for day count d
// and west longitude lw (radians), with the same constants suncalc uses so
// stars and the Sun share one frame.
func siderealTime(d, lw float64) float64 {
	return degToRad(280.16+360.9856235*d) - lw
}

// altitude is the angle above the horizon for hour angle h, latitude phi and
// declination dec (radians).
func altitude(h, phi, dec float64) float64 {
	return math.Asin(math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(h))
}

// southAzimuth measures from south, increasing westward (radians), like
// suncalc. Callers never expose it; see northAzimuth.
func southAzimuth(h, phi, dec float64) float64 {
	return math.Atan2(math.Sin(h), math.Cos(h)*math.Sin(phi)-math.Tan(dec)*math.Cos(phi))
}

// northAzimuth converts a south-based westward azimuth in radians to the
// convention used by every exported type: degrees from north, clockwise,
// in [0, 360).
func northAzimuth(southAz float64) float64 {
	return normalizeAngle360(radToDeg(southAz) + 180)
}

// horizontal is a horizon position in radians; az is south-based.
type horizontal struct {
	alt, az float64
}

// toHorizontal converts equatorial coordinates to horizon coordinates. The
// Sun and Moon go through suncalc; this serves catalog stars, whose
// coordinates suncalc cannot take.
func toHorizontal(d, lat, lon, ra, dec float64) horizontal {
	lw := degToRad(-lon)
	phi := degToRad(lat)
	h := siderealTime(d, lw) - ra
	return horizontal{
		alt: altitude(h, phi, dec),
		az:  southAzimuth(h, phi, dec),
	}
}

// AngularSeparation calculates the angular separation between two points on the celestial sphere.
// All coordinates in degrees. Returns separation in degrees.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	ra1Rad := degToRad(ra1)
	dec1Rad := degToRad(dec1)
	ra2Rad := degToRad(ra2)
	dec2Rad := degToRad(dec2)

	// Haversine formula for angular separation
	dRA := ra2Rad - ra1Rad
	dDec := dec2Rad - dec1Rad

	a := math.Sin(dDec/2)*math.Sin(dDec/2) +
		math.Cos(dec1Rad)*math.Cos(dec2Rad)*math.Sin(dRA/2)*math.Sin(dRA/2)

	if a > 1 {
		a = 1
	}

	return radToDeg(2 * math.Asin(math.Sqrt(a)))
}

// SunMoonSeparation returns the geocentric angle between the Sun and the
// Moon in degrees at t.
func SunMoonSeparation(t time.Time) float64 {
	d := ToDays(t)
	s := sunCoords(d)
	m := moonCoords(d)
	return AngularSeparation(radToDeg(s.ra), radToDeg(s.dec), radToDeg(m.ra), radToDeg(m.dec))
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
