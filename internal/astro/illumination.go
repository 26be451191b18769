package astro

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// SynodicMonth is the mean length of a lunation in days.
const SynodicMonth = 29.530588853

// Phase is one of the eight named lunar phases.
type Phase int

const (
	PhaseNew Phase = iota
	PhaseWaxingCrescent
	PhaseFirstQuarter
	PhaseWaxingGibbous
	PhaseFull
	PhaseWaningGibbous
	PhaseLastQuarter
	PhaseWaningCrescent
)

func (p Phase) String() string {
	switch p {
	case PhaseNew:
		return "New Moon"
	case PhaseWaxingCrescent:
		return "Waxing Crescent"
	case PhaseFirstQuarter:
		return "First Quarter"
	case PhaseWaxingGibbous:
		return "Waxing Gibbous"
	case PhaseFull:
		return "Full Moon"
	case PhaseWaningGibbous:
		return "Waning Gibbous"
	case PhaseLastQuarter:
		return "Last Quarter"
	case PhaseWaningCrescent:
		return "Waning Crescent"
	default:
		return "Unknown"
	}
}

// phaseBounds holds the upper bound of each bucket, in Phase order. Values
// at or above the last bound wrap back to PhaseNew.
var phaseBounds = [...]float64{
	PhaseNew:            0.03,
	PhaseWaxingCrescent: 0.22,
	PhaseFirstQuarter:   0.28,
	PhaseWaxingGibbous:  0.47,
	PhaseFull:           0.53,
	PhaseWaningGibbous:  0.72,
	PhaseLastQuarter:    0.78,
	PhaseWaningCrescent: 0.97,
}

// ClassifyPhase maps a phase value in [0, 1) to its named bucket. Values
// outside the range are wrapped first.
func ClassifyPhase(phase float64) Phase {
	phase -= math.Floor(phase)
	for p, upper := range phaseBounds {
		if phase < upper {
			return Phase(p)
		}
	}
	return PhaseNew
}

// LunarIllumination describes the lit part of the Moon's disc.
type LunarIllumination struct {
	Fraction float64 // illuminated fraction of the disc, 0-1
	Phase    float64 // 0 new, 0.25 first quarter, 0.5 full, 0.75 last quarter; wraps at 1
	AngleDeg float64 // position angle of the bright limb's midpoint, east of north
	Name     Phase
}

// AgeDays converts the phase to days since new moon.
func (l LunarIllumination) AgeDays() float64 {
	return l.Phase * SynodicMonth
}

// Waxing reports whether the lit fraction is growing.
func (l LunarIllumination) Waxing() bool {
	return l.Phase < 0.5
}

// MoonIllumination computes the Moon's illuminated fraction and phase at t.
// The result does not depend on the observer.
//
// Fraction and bright-limb angle come from suncalc. The phase is the
// Moon's ecliptic elongation east of the Sun as a fraction of a turn; the
// Moon's longitude always advances faster than the Sun's, so the phase never
// steps backwards.
func MoonIllumination(t time.Time) LunarIllumination {
	ill := suncalc.GetMoonIllumination(t)

	d := ToDays(t)
	sunLon := eclipticLongitude(solarMeanAnomaly(d))
	phase := math.Mod(moonCoords(d).lon-sunLon, 2*math.Pi) / (2 * math.Pi)
	if phase < 0 {
		phase++
	}
	if phase >= 1 {
		phase = 0
	}

	return LunarIllumination{
		Fraction: ill.Fraction,
		Phase:    phase,
		AngleDeg: radToDeg(ill.Angle),
		Name:     ClassifyPhase(phase),
	}
}

// PhaseTarget selects the principal phase NextPhase searches for.
type PhaseTarget float64

const (
	TargetNew          PhaseTarget = 0
	TargetFirstQuarter PhaseTarget = 0.25
	TargetFull         PhaseTarget = 0.5
	TargetLastQuarter  PhaseTarget = 0.75
)

// NextPhase returns the first instant after t at which the Moon reaches
// target. The search steps hourly and bisects the bracketing hour to about
// a second.
func NextPhase(t time.Time, target PhaseTarget) time.Time {
	// offset maps the target to 0 so every crossing is a wrap from ~1 to ~0.
	offset := func(at time.Time) float64 {
		p := MoonIllumination(at).Phase - float64(target)
		return p - math.Floor(p)
	}

	const step = time.Hour
	limit := int(math.Ceil((SynodicMonth + 1) * 24))

	prev := offset(t)
	lo := t
	for i := 1; i <= limit; i++ {
		hi := t.Add(time.Duration(i) * step)
		cur := offset(hi)
		if cur < prev {
			for hi.Sub(lo) > time.Second {
				mid := lo.Add(hi.Sub(lo) / 2)
				if offset(mid) < prev {
					hi = mid
				} else {
					lo = mid
				}
			}
			return hi.UTC()
		}
		prev = cur
		lo = hi
	}
	return time.Time{}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
