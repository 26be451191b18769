package almanac

import (
	"math"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/julian"
	"github.com/mooncaker816/learnmeeus/v3/solstice"
)

// SeasonEvent is an equinox or solstice.
type SeasonEvent struct {
	Name string
	Time time.Time
}

// SeasonInfo places an instant within the astronomical seasons.
type SeasonInfo struct {
	Name     string // Spring, Summer, Autumn or Winter for the site's hemisphere
	Previous SeasonEvent
	Next     SeasonEvent
	Progress float64 // share of the current season elapsed
}

// jdeToTime converts a Julian Ephemeris Day to UTC. The ~70 s offset
// between dynamical time and UTC is ignored.
func jdeToTime(jde float64) time.Time {
	y, m, d := julian.JDToCalendar(jde)
	day, frac := math.Modf(d)
	base := time.Date(y, time.Month(m), int(day), 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(frac * 24 * float64(time.Hour))).Truncate(time.Second)
}

// SeasonEvents returns the four equinoxes and solstices of year in order.
func SeasonEvents(year int) []SeasonEvent {
	return []SeasonEvent{
		{"March equinox", jdeToTime(solstice.March(year))},
		{"June solstice", jdeToTime(solstice.June(year))},
		{"September equinox", jdeToTime(solstice.September(year))},
		{"December solstice", jdeToTime(solstice.December(year))},
	}
}

// seasonNames lists the season that starts at each SeasonEvents entry, for
// the northern and southern hemispheres.
var seasonNames = [2][4]string{
	{"Spring", "Summer", "Autumn", "Winter"},
	{"Autumn", "Winter", "Spring", "Summer"},
}

// Season locates t among the surrounding equinoxes and solstices.
func Season(t time.Time, lat float64) SeasonInfo {
	year := t.UTC().Year()
	events := append(SeasonEvents(year-1)[3:], SeasonEvents(year)...)
	events = append(events, SeasonEvents(year+1)[0])

	hemi := 0
	if lat < 0 {
		hemi = 1
	}

	for i := 0; i < len(events)-1; i++ {
		prev, next := events[i], events[i+1]
		if t.Before(prev.Time) || !t.Before(next.Time) {
			continue
		}
		// events[0] is the previous December solstice.
		idx := (i + 3) % 4
		return SeasonInfo{
			Name:     seasonNames[hemi][idx],
			Previous: prev,
			Next:     next,
			Progress: float64(t.Sub(prev.Time)) / float64(next.Time.Sub(prev.Time)),
		}
	}
	return SeasonInfo{}
}
