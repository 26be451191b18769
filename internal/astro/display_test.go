package astro

import "testing"

func TestCompassPoint(t *testing.T) {
	tests := []struct {
		az   float64
		want string
	}{
		{0, "N"},
		{11.24, "N"},
		{11.26, "NNE"},
		{45, "NE"},
		{90, "E"},
		{136.4, "SE"},
		{180, "S"},
		{241.6, "WSW"},
		{270, "W"},
		{348.76, "N"},
		{359.9, "N"},
		{-90, "W"},
		{450, "E"},
	}

	for _, tt := range tests {
		if got := CompassPoint(tt.az); got != tt.want {
			t.Errorf("CompassPoint(%v) = %q, want %q", tt.az, got, tt.want)
		}
	}
}

func TestGetElevationTier(t *testing.T) {
	tests := []struct {
		alt  float64
		want ElevationTier
	}{
		{-10, ElevationNone},
		{0, ElevationNone},
		{0.1, ElevationLow},
		{14.9, ElevationLow},
		{15, ElevationMedium},
		{44.9, ElevationMedium},
		{45, ElevationHigh},
		{90, ElevationHigh},
	}

	for _, tt := range tests {
		if got := GetElevationTier(tt.alt); got != tt.want {
			t.Errorf("GetElevationTier(%v) = %v, want %v", tt.alt, got, tt.want)
		}
	}
}
