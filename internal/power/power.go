// Package power estimates photovoltaic output from the Sun's altitude.
//
// The model is deliberately simple: clear-sky irradiance scales with the
// sine of the solar altitude, panels are rated at standard test conditions
// (1000 W/m², 25 °C), and losses are applied as flat percentages.
package power

import (
	"errors"
	"fmt"
	"math"
)

// STCIrradiance is the irradiance at standard test conditions, in W/m².
const STCIrradiance = 1000.0

// stcCellTempC is the cell temperature at standard test conditions.
const stcCellTempC = 25.0

// noctRiseC approximates how far panels run above ambient in full sun.
const noctRiseC = 25.0

// PanelSpec describes an installed array.
type PanelSpec struct {
	Count            int     `yaml:"count" json:"count"`
	Watts            float64 `yaml:"watts" json:"watts"`                         // rated output per panel at STC
	SystemLossesPct  float64 `yaml:"system_losses_pct" json:"system_losses_pct"` // wiring, inverter, soiling
	TempCoeffPct     float64 `yaml:"temp_coeff_pct" json:"temp_coeff_pct"`       // output lost per °C above 25 °C
	AmbientC         float64 `yaml:"ambient_c" json:"ambient_c"`
	PerformanceRatio float64 `yaml:"performance_ratio" json:"performance_ratio"`
}

// DefaultPanelSpec is a typical ten panel residential array.
func DefaultPanelSpec() PanelSpec {
	return PanelSpec{
		Count:            10,
		Watts:            400,
		SystemLossesPct:  14,
		TempCoeffPct:     0.35,
		AmbientC:         25,
		PerformanceRatio: 0.8,
	}
}

// RatedWatts is the nameplate capacity of the whole array.
func (p PanelSpec) RatedWatts() float64 {
	return float64(p.Count) * p.Watts
}

// Validate reports every out-of-range field.
func (p PanelSpec) Validate() error {
	var errs []error
	if p.Count < 0 {
		errs = append(errs, fmt.Errorf("panel count %d must not be negative", p.Count))
	}
	if p.Watts < 0 || math.IsNaN(p.Watts) {
		errs = append(errs, fmt.Errorf("panel watts %v must not be negative", p.Watts))
	}
	if p.SystemLossesPct < 0 || p.SystemLossesPct > 100 {
		errs = append(errs, fmt.Errorf("system losses %v%% must be within [0, 100]", p.SystemLossesPct))
	}
	if p.TempCoeffPct < 0 || p.TempCoeffPct > 5 {
		errs = append(errs, fmt.Errorf("temperature coefficient %v%%/°C must be within [0, 5]", p.TempCoeffPct))
	}
	if p.PerformanceRatio <= 0 || p.PerformanceRatio > 1 {
		errs = append(errs, fmt.Errorf("performance ratio %v must be within (0, 1]", p.PerformanceRatio))
	}
	return errors.Join(errs...)
}

// Irradiance returns clear-sky irradiance in W/m² for a solar altitude in
// degrees. It is zero while the Sun is below the horizon.
func Irradiance(altDeg float64) float64 {
	return STCIrradiance * math.Max(0, math.Sin(altDeg*math.Pi/180))
}

// Estimate is the array's expected output at one instant.
type Estimate struct {
	IrradianceWm2 float64 `json:"irradiance_wm2"`
	PowerW        float64 `json:"power_w"`      // irradiance and performance ratio only
	TruePowerW    float64 `json:"true_power_w"` // additionally derated for heat and system losses
}

// Instantaneous estimates output for a solar altitude in degrees.
func (p PanelSpec) Instantaneous(altDeg float64) Estimate {
	g := Irradiance(altDeg)
	return Estimate{
		IrradianceWm2: g,
		PowerW:        math.Max(0, p.RatedWatts()*(g/STCIrradiance)*p.PerformanceRatio),
		TruePowerW:    p.TruePower(g, p.AmbientC),
	}
}

// TruePower derates the STC output at irradiance g (W/m²) for a cell running
// noctRiseC above ambientC, then applies system losses. The result is
// rounded to whole watts and never exceeds the rated capacity.
func (p PanelSpec) TruePower(g, ambientC float64) float64 {
	rated := p.RatedWatts()
	raw := rated * g / STCIrradiance

	cellC := ambientC + noctRiseC
	tempLoss := p.TempCoeffPct / 100 * (cellC - stcCellTempC)
	derated := raw * math.Max(0, 1-tempLoss)
	afterLosses := derated * (1 - p.SystemLossesPct/100)

	return math.Max(0, math.Round(math.Min(afterLosses, rated)))
}

// Orientation is the fixed-mount tilt that maximizes yearly output.
type Orientation struct {
	TiltDeg    float64 `json:"tilt_deg"`
	AzimuthDeg float64 `json:"azimuth_deg"` // north = 0, clockwise
	Facing     string  `json:"facing"`
}

// OptimalOrientation tilts the array by the site latitude toward the
// equator: south in the northern hemisphere, north in the southern.
func OptimalOrientation(lat float64) Orientation {
	if lat >= 0 {
		return Orientation{TiltDeg: math.Abs(lat), AzimuthDeg: 180, Facing: "True South"}
	}
	return Orientation{TiltDeg: math.Abs(lat), AzimuthDeg: 0, Facing: "True North"}
}

// FormatWatts renders a power value as "850 W" or "3.4 kW".
func FormatWatts(w float64) string {
	if w >= 1000 {
		return fmt.Sprintf("%.1f kW", w/1000)
	}
	return fmt.Sprintf("%.0f W", w)
}
