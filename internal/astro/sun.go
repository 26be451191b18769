package astro

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// perihelion is the ecliptic longitude of Earth's perihelion in radians.
var perihelion = degToRad(102.9372)

// equatorial holds right ascension and declination in radians.
type equatorial struct {
	ra, dec float64
}

func solarMeanAnomaly(d float64) float64 {
	return degToRad(357.5291 + 0.98560028*d)
}

// eclipticLongitude applies a three-term equation of centre to the mean
// anomaly m (radians).
func eclipticLongitude(m float64) float64 {
	c := degToRad(1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m))
	return m + c + perihelion + math.Pi
}

// sunCoords returns the Sun's geocentric equatorial position for day count d.
// suncalc computes the same internally but does not export it; right
// ascension, declination and the phase elongation need it.
func sunCoords(d float64) equatorial {
	l := eclipticLongitude(solarMeanAnomaly(d))
	return equatorial{
		ra:  rightAscension(l, 0),
		dec: declination(l, 0),
	}
}

// SolarPosition is the Sun's place in the observer's sky. Altitude is the
// geometric altitude; no refraction is applied.
type SolarPosition struct {
	AltitudeDeg       float64 // degrees above the horizon, negative below
	AzimuthDeg        float64 // degrees from north, clockwise (90 = east)
	RightAscensionDeg float64 // 0-360
	DeclinationDeg    float64
}

// SunPosition computes the Sun's altitude and azimuth at t for the given
// latitude and longitude in degrees.
func SunPosition(t time.Time, lat, lon float64) (SolarPosition, error) {
	lon, err := checkSite(lat, lon)
	if err != nil {
		return SolarPosition{}, err
	}
	p := suncalc.GetPosition(t, lat, lon)
	c := sunCoords(ToDays(t))
	return SolarPosition{
		AltitudeDeg:       radToDeg(p.Altitude),
		AzimuthDeg:        northAzimuth(p.Azimuth),
		RightAscensionDeg: normalizeAngle360(radToDeg(c.ra)),
		DeclinationDeg:    radToDeg(c.dec),
	}, nil
}

// SunSeparationTier categorizes the Sun-Moon angle for display. A Moon close
// to the Sun is lost in glare regardless of its altitude.
type SunSeparationTier int

const (
	SunSepSafe    SunSeparationTier = iota // >= 20 degrees
	SunSepCaution                          // 10-20 degrees
	SunSepWarning                          // < 10 degrees
)

// GetSunSeparationTier returns the tier for a given separation angle.
func GetSunSeparationTier(sepDeg float64) SunSeparationTier {
	switch {
	case sepDeg < 10:
		return SunSepWarning
	case sepDeg < 20:
		return SunSepCaution
	default:
		return SunSepSafe
	}
}
