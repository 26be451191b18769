package astro

import "math"

// ElevationTier categorizes altitude for UI display.
type ElevationTier int

const (
	ElevationNone   ElevationTier = iota // Below horizon
	ElevationLow                         // 0-15 degrees
	ElevationMedium                      // 15-45 degrees
	ElevationHigh                        // 45+ degrees
)

// GetElevationTier returns the tier for a given altitude.
func GetElevationTier(altDeg float64) ElevationTier {
	switch {
	case altDeg <= 0:
		return ElevationNone
	case altDeg < 15:
		return ElevationLow
	case altDeg < 45:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint names the 16-wind direction of a north-based azimuth.
func CompassPoint(azDeg float64) string {
	idx := int(math.Round(normalizeAngle360(azDeg)/22.5)) % 16
	return compassPoints[idx]
}
