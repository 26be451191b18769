package astro

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// moonEquatorial is the Moon's equatorial position plus the ecliptic
// longitude the phase needs.
type moonEquatorial struct {
	equatorial
	lon float64 // ecliptic longitude, radians
}

// moonCoords evaluates a truncated lunar series: mean longitude, mean anomaly
// and mean distance from the ascending node, each with its dominant periodic
// term. It mirrors the series inside suncalc, which keeps these values
// private.
func moonCoords(d float64) moonEquatorial {
	L := degToRad(218.316 + 13.176396*d)
	M := degToRad(134.963 + 13.064993*d)
	F := degToRad(93.272 + 13.229350*d)

	l := L + degToRad(6.289)*math.Sin(M)
	b := degToRad(5.128) * math.Sin(F)

	return moonEquatorial{
		equatorial: equatorial{ra: rightAscension(l, b), dec: declination(l, b)},
		lon:        l,
	}
}

// LunarPosition is the Moon's place in the observer's sky.
type LunarPosition struct {
	AltitudeDeg         float64 // refraction-corrected, degrees above the horizon
	AzimuthDeg          float64 // degrees from north, clockwise (90 = east)
	DistanceKm          float64 // geocentric distance
	ParallacticAngleDeg float64
	RightAscensionDeg   float64 // 0-360
	DeclinationDeg      float64
}

// MoonPosition computes the Moon's altitude, azimuth, distance and
// parallactic angle at t for the given latitude and longitude in degrees.
// The altitude includes suncalc's Saemundsson refraction, which is clamped
// at the horizon and so lifts a set Moon by a constant 0.48°.
func MoonPosition(t time.Time, lat, lon float64) (LunarPosition, error) {
	lon, err := checkSite(lat, lon)
	if err != nil {
		return LunarPosition{}, err
	}

	p := suncalc.GetMoonPosition(t, lat, lon)
	c := moonCoords(ToDays(t))
	return LunarPosition{
		AltitudeDeg:         radToDeg(p.Altitude),
		AzimuthDeg:          northAzimuth(p.Azimuth),
		DistanceKm:          p.Distance,
		ParallacticAngleDeg: radToDeg(p.ParallacticAngle),
		RightAscensionDeg:   normalizeAngle360(radToDeg(c.ra)),
		DeclinationDeg:      radToDeg(c.dec),
	}, nil
}

// moonAltitude is MoonPosition's altitude without validation. MoonTimes
// samples it so displayed altitudes and rise/set times share one model.
func moonAltitude(t time.Time, lat, lon float64) float64 {
	return radToDeg(suncalc.GetMoonPosition(t, lat, lon).Altitude)
}
