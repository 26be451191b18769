package astro

import "time"

// Star is a cataloged star with J2000 position and brightness.
type Star struct {
	Name   string
	RAdeg  float64
	DecDeg float64
	Mag    float64 // apparent visual magnitude, lower is brighter
}

// StarCatalog holds the stars drawn behind the Sun and Moon.
type StarCatalog struct {
	Stars []Star
}

// HorizontalPosition is an altitude and north-clockwise azimuth in degrees.
type HorizontalPosition struct {
	AltitudeDeg float64
	AzimuthDeg  float64
}

// Position returns the star's geometric altitude and azimuth for an
// observer. Precession since J2000 is ignored.
func (s Star) Position(t time.Time, lat, lon float64) (HorizontalPosition, error) {
	lon, err := checkSite(lat, lon)
	if err != nil {
		return HorizontalPosition{}, err
	}
	h := toHorizontal(ToDays(t), lat, lon, degToRad(s.RAdeg), degToRad(s.DecDeg))
	return HorizontalPosition{
		AltitudeDeg: radToDeg(h.alt),
		AzimuthDeg:  northAzimuth(h.az),
	}, nil
}

// DefaultStarCatalog returns the navigational bright stars (mag < 2.1).
func DefaultStarCatalog() StarCatalog {
	return StarCatalog{Stars: defaultStars}
}

// Brighter returns the stars brighter than maxMag.
func (c StarCatalog) Brighter(maxMag float64) []Star {
	var out []Star
	for _, s := range c.Stars {
		if s.Mag < maxMag {
			out = append(out, s)
		}
	}
	return out
}

// Ordered by magnitude.
var defaultStars = []Star{
	{"Sirius", 101.287, -16.716, -1.46},
	{"Canopus", 95.988, -52.696, -0.74},
	{"Arcturus", 213.915, 19.182, -0.05},
	{"Vega", 279.235, 38.784, 0.03},
	{"Capella", 79.172, 45.998, 0.08},
	{"Rigel", 78.634, -8.202, 0.13},
	{"Procyon", 114.826, 5.225, 0.34},
	{"Achernar", 24.429, -57.237, 0.46},
	{"Betelgeuse", 88.793, 7.407, 0.50},
	{"Hadar", 210.956, -60.373, 0.61},
	{"Altair", 297.696, 8.868, 0.76},
	{"Acrux", 186.650, -63.099, 0.76},
	{"Aldebaran", 68.980, 16.509, 0.85},
	{"Antares", 247.352, -26.432, 0.96},
	{"Spica", 201.298, -11.161, 0.97},
	{"Pollux", 116.329, 28.026, 1.14},
	{"Fomalhaut", 344.413, -29.622, 1.16},
	{"Deneb", 310.358, 45.280, 1.25},
	{"Mimosa", 191.930, -59.689, 1.25},
	{"Regulus", 152.093, 11.967, 1.35},
	{"Adhara", 104.656, -28.972, 1.50},
	{"Castor", 113.650, 31.889, 1.58},
	{"Gacrux", 187.791, -57.113, 1.63},
	{"Shaula", 263.402, -37.104, 1.63},
	{"Bellatrix", 81.283, 6.350, 1.64},
	{"Elnath", 81.573, 28.608, 1.65},
	{"Miaplacidus", 138.300, -69.717, 1.68},
	{"Alnilam", 84.053, -1.202, 1.69},
	{"Alnair", 332.058, -46.961, 1.74},
	{"Alnitak", 85.190, -1.943, 1.77},
	{"Alioth", 193.507, 55.960, 1.77},
	{"Dubhe", 165.932, 61.751, 1.79},
	{"Mirfak", 51.081, 49.861, 1.79},
	{"Wezen", 107.098, -26.393, 1.84},
	{"Kaus Australis", 276.043, -34.384, 1.85},
	{"Avior", 125.629, -59.509, 1.86},
	{"Alkaid", 206.885, 49.313, 1.86},
	{"Sargas", 264.330, -42.998, 1.87},
	{"Menkalinan", 89.882, 44.948, 1.90},
	{"Atria", 252.166, -69.028, 1.92},
	{"Alhena", 99.428, 16.399, 1.93},
	{"Peacock", 306.412, -56.735, 1.94},
	{"Alsephina", 131.176, -54.709, 1.96},
	{"Mirzam", 95.675, -17.956, 1.98},
	{"Alphard", 141.897, -8.659, 2.00},
	{"Hamal", 31.793, 23.463, 2.00},
	{"Polaris", 37.954, 89.264, 2.02},
	{"Diphda", 10.897, -17.987, 2.02},
	{"Nunki", 283.816, -26.297, 2.02},
	{"Mizar", 200.981, 54.925, 2.04},
	{"Alpheratz", 2.097, 29.091, 2.06},
	{"Menkent", 211.671, -36.370, 2.06},
	{"Kochab", 222.676, 74.156, 2.08},
	{"Rasalhague", 263.734, 12.560, 2.08},
}
