package almanac

import (
	"fmt"
	"sort"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
)

// moonDay runs MoonTimes for the calendar day offset days from t's day.
func moonDay(t time.Time, obs astro.Observer, offset int) (astro.LunarTimes, error) {
	y, m, d := t.Date()
	day := time.Date(y, m, d+offset, 12, 0, 0, 0, t.Location())
	lt, err := astro.MoonTimes(day, obs.LatDeg, obs.LonDeg)
	if err != nil {
		return astro.LunarTimes{}, fmt.Errorf("moon times: %w", err)
	}
	return lt, nil
}

// NextMoonEvents returns the first moonrise and moonset strictly after t,
// searching t's calendar day and the following one. Either may be
// unobserved near the poles.
func NextMoonEvents(t time.Time, obs astro.Observer) (rise, set astro.EventTime, err error) {
	for offset := 0; offset <= 1; offset++ {
		lt, err := moonDay(t, obs, offset)
		if err != nil {
			return astro.EventTime{}, astro.EventTime{}, err
		}
		if !rise.Observed && lt.Rise.Observed && lt.Rise.Time.After(t) {
			rise = lt.Rise
		}
		if !set.Observed && lt.Set.Observed && lt.Set.Time.After(t) {
			set = lt.Set
		}
	}
	return rise, set, nil
}

// MoonArcProgress places the Moon along its visible arc for display: 0 at
// rise, 1 at set. When today's rise and set do not bracket t, it falls back
// to the azimuth as a share of a full turn.
func MoonArcProgress(t time.Time, today astro.LunarTimes, pos astro.LunarPosition) float64 {
	if today.Rise.Observed && today.Set.Observed && today.Rise.Time.Before(today.Set.Time) {
		span := today.Set.Time.Sub(today.Rise.Time)
		elapsed := t.Sub(today.Rise.Time)
		p := float64(elapsed) / float64(span)
		if p >= 0 && p <= 1 {
			return p
		}
	}
	return pos.AzimuthDeg / 360
}

// PassStatus classifies a pass relative to current time.
type PassStatus int

const (
	PassPast   PassStatus = iota // Pass has ended
	PassNow                      // Currently in progress
	PassNext                     // Next upcoming pass
	PassFuture                   // Future pass (not next)
)

// String returns the status name.
func (s PassStatus) String() string {
	switch s {
	case PassPast:
		return "PAST"
	case PassNow:
		return "NOW"
	case PassNext:
		return "NEXT"
	case PassFuture:
		return "FUTURE"
	default:
		return "?"
	}
}

// Pass is one interval with the Moon above the horizon. Rise or Set is
// unobserved when the pass extends past the searched days.
type Pass struct {
	Rise   astro.EventTime
	Set    astro.EventTime
	Status PassStatus
}

// PassPlan lists the Moon's passes around an instant.
type PassPlan struct {
	GeneratedAt time.Time
	WindowStart time.Time
	WindowEnd   time.Time
	Passes      []Pass
}

// ComputeMoonPasses pairs rises with the following sets over the calendar
// day before t through days-1 days after it.
func ComputeMoonPasses(t time.Time, obs astro.Observer, days int) (*PassPlan, error) {
	if days < 1 {
		days = 1
	}

	type crossing struct {
		at   time.Time
		rise bool
	}
	var crossings []crossing
	for offset := -1; offset < days; offset++ {
		lt, err := moonDay(t, obs, offset)
		if err != nil {
			return nil, err
		}
		if lt.Rise.Observed {
			crossings = append(crossings, crossing{lt.Rise.Time, true})
		}
		if lt.Set.Observed {
			crossings = append(crossings, crossing{lt.Set.Time, false})
		}
	}
	sort.Slice(crossings, func(i, j int) bool { return crossings[i].at.Before(crossings[j].at) })

	var passes []Pass
	var open *Pass
	for _, c := range crossings {
		switch {
		case c.rise:
			if open != nil {
				passes = append(passes, *open)
			}
			open = &Pass{Rise: astro.EventTime{Time: c.at, Observed: true}}
		case open != nil:
			open.Set = astro.EventTime{Time: c.at, Observed: true}
			passes = append(passes, *open)
			open = nil
		default:
			// Set with no rise in the window: the pass began earlier.
			passes = append(passes, Pass{Set: astro.EventTime{Time: c.at, Observed: true}})
		}
	}
	if open != nil {
		passes = append(passes, *open)
	}

	classifyPasses(passes, t)

	y, m, d := t.Date()
	start := time.Date(y, m, d-1, 0, 0, 0, 0, t.Location())
	return &PassPlan{
		GeneratedAt: t,
		WindowStart: start,
		WindowEnd:   time.Date(y, m, d+days, 0, 0, 0, 0, t.Location()),
		Passes:      passes,
	}, nil
}

// classifyPasses assigns status to each pass based on current time.
func classifyPasses(passes []Pass, now time.Time) {
	foundNext := false

	for i := range passes {
		p := &passes[i]
		started := !p.Rise.Observed || !now.Before(p.Rise.Time)
		ended := p.Set.Observed && now.After(p.Set.Time)

		switch {
		case ended:
			p.Status = PassPast
		case started:
			p.Status = PassNow
		case !foundNext:
			p.Status = PassNext
			foundNext = true
		default:
			p.Status = PassFuture
		}
	}
}

// CurrentPass returns the pass in progress, or nil.
func (p *PassPlan) CurrentPass() *Pass {
	for i := range p.Passes {
		if p.Passes[i].Status == PassNow {
			return &p.Passes[i]
		}
	}
	return nil
}

// NextPass returns the next upcoming pass, or nil.
func (p *PassPlan) NextPass() *Pass {
	for i := range p.Passes {
		if p.Passes[i].Status == PassNext {
			return &p.Passes[i]
		}
	}
	return nil
}
