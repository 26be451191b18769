package almanac

import (
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
)

// Body names a tracked object.
type Body string

const (
	BodySun  Body = "sun"
	BodyMoon Body = "moon"
)

// AltitudeSample is a single altitude at a point in time.
type AltitudeSample struct {
	Time        time.Time
	AltitudeDeg float64
}

// AltitudeTrace contains altitude samples over a time window.
type AltitudeTrace struct {
	Body        Body
	Samples     []AltitudeSample
	GeneratedAt time.Time
	WindowStart time.Time
	WindowEnd   time.Time
}

// TraceWindow is the span on each side of now covered by a trace.
const TraceWindow = 12 * time.Hour

// TraceSampleInterval is the time between samples.
const TraceSampleInterval = 30 * time.Minute

// ComputeAltitudeTrace samples body's altitude for obs over ±TraceWindow
// around now. The sample nearest now falls exactly on now.
func ComputeAltitudeTrace(body Body, obs astro.Observer, now time.Time) (*AltitudeTrace, error) {
	altitude := func(t time.Time) (float64, error) {
		if body == BodyMoon {
			p, err := astro.MoonPosition(t, obs.LatDeg, obs.LonDeg)
			return p.AltitudeDeg, err
		}
		p, err := astro.SunPosition(t, obs.LatDeg, obs.LonDeg)
		return p.AltitudeDeg, err
	}

	windowStart := now.Add(-TraceWindow)
	windowEnd := now.Add(TraceWindow)

	n := int(2*TraceWindow/TraceSampleInterval) + 1
	samples := make([]AltitudeSample, 0, n)
	for i := 0; i < n; i++ {
		ts := windowStart.Add(time.Duration(i) * TraceSampleInterval)
		alt, err := altitude(ts)
		if err != nil {
			return nil, err
		}
		samples = append(samples, AltitudeSample{Time: ts, AltitudeDeg: alt})
	}

	return &AltitudeTrace{
		Body:        body,
		Samples:     samples,
		GeneratedAt: now,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	}, nil
}

// CurrentAltitude returns the sample closest to the given time, or nil if no
// samples exist.
func (t *AltitudeTrace) CurrentAltitude(now time.Time) *AltitudeSample {
	if len(t.Samples) == 0 {
		return nil
	}

	var closest *AltitudeSample
	var minDelta time.Duration = 1<<63 - 1

	for i := range t.Samples {
		delta := t.Samples[i].Time.Sub(now)
		if delta < 0 {
			delta = -delta
		}
		if delta < minDelta {
			minDelta = delta
			closest = &t.Samples[i]
		}
	}

	return closest
}

// Values returns the altitudes in time order.
func (t *AltitudeTrace) Values() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.AltitudeDeg
	}
	return out
}

// Peak returns the highest sample, or nil if no samples exist.
func (t *AltitudeTrace) Peak() *AltitudeSample {
	var peak *AltitudeSample
	for i := range t.Samples {
		if peak == nil || t.Samples[i].AltitudeDeg > peak.AltitudeDeg {
			peak = &t.Samples[i]
		}
	}
	return peak
}
