// Package almanac composes engine results into per-site readings and
// renders them for export.
package almanac

import (
	"fmt"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/power"
)

// Site is everything needed to compute a Reading besides the instant.
type Site struct {
	Observer astro.Observer
	Location *time.Location // calendar-day boundaries and display; nil means UTC
	Panels   power.PanelSpec
}

func (s Site) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// SunReading is the Sun's state at one instant.
type SunReading struct {
	Position    astro.SolarPosition
	Times       astro.SolarTimes
	Compass     string
	Progress    float64 // share of daylight elapsed
	HasDaylight bool    // Progress is meaningful
	Up          bool    // above the sunrise threshold
}

// MoonReading is the Moon's state at one instant.
type MoonReading struct {
	Position     astro.LunarPosition
	Illumination astro.LunarIllumination
	Today        astro.LunarTimes // the local calendar day
	NextRise     astro.EventTime  // first rise after the instant, within two days
	NextSet      astro.EventTime
	Compass      string
	ArcProgress  float64
	Up           bool
	NextNew      time.Time
	NextFull     time.Time
	SunSepDeg    float64
}

// Reading bundles every quantity the dashboard and exports show.
type Reading struct {
	At     time.Time
	Site   Site
	Sun    SunReading
	Moon   MoonReading
	Power  power.Estimate
	Tilt   power.Orientation
	Season SeasonInfo
}

// Compute builds a Reading for site at t. The only error source is an
// invalid observer.
func Compute(t time.Time, site Site) (*Reading, error) {
	obs := site.Observer
	local := t.In(site.location())

	sunPos, err := astro.SunPosition(local, obs.LatDeg, obs.LonDeg)
	if err != nil {
		return nil, fmt.Errorf("sun position: %w", err)
	}
	sunTimes, err := astro.SunTimes(local, obs.LatDeg, obs.LonDeg)
	if err != nil {
		return nil, fmt.Errorf("sun times: %w", err)
	}
	moonPos, err := astro.MoonPosition(local, obs.LatDeg, obs.LonDeg)
	if err != nil {
		return nil, fmt.Errorf("moon position: %w", err)
	}
	moonToday, err := astro.MoonTimes(local, obs.LatDeg, obs.LonDeg)
	if err != nil {
		return nil, fmt.Errorf("moon times: %w", err)
	}
	nextRise, nextSet, err := NextMoonEvents(local, obs)
	if err != nil {
		return nil, err
	}

	progress, hasDaylight := sunTimes.DaylightProgress(local)
	illum := astro.MoonIllumination(local)

	r := &Reading{
		At:   local,
		Site: site,
		Sun: SunReading{
			Position:    sunPos,
			Times:       sunTimes,
			Compass:     astro.CompassPoint(sunPos.AzimuthDeg),
			Progress:    progress,
			HasDaylight: hasDaylight,
			Up:          sunPos.AltitudeDeg > astro.AltSunrise,
		},
		Moon: MoonReading{
			Position:     moonPos,
			Illumination: illum,
			Today:        moonToday,
			NextRise:     nextRise,
			NextSet:      nextSet,
			Compass:      astro.CompassPoint(moonPos.AzimuthDeg),
			ArcProgress:  MoonArcProgress(local, moonToday, moonPos),
			Up:           moonPos.AltitudeDeg > astro.MoonHorizonDeg,
			NextNew:      astro.NextPhase(local, astro.TargetNew),
			NextFull:     astro.NextPhase(local, astro.TargetFull),
			SunSepDeg:    astro.SunMoonSeparation(local),
		},
		Power:  site.Panels.Instantaneous(sunPos.AltitudeDeg),
		Tilt:   power.OptimalOrientation(obs.LatDeg),
		Season: Season(local, obs.LatDeg),
	}
	return r, nil
}
