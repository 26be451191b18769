package astro

import (
	"math"
	"testing"
	"time"
)

func TestMoonIllumination_Reference(t *testing.T) {
	tests := []struct {
		name         string
		time         time.Time
		wantFraction float64
		wantPhase    float64
		wantName     Phase
	}{
		{"new moon 2000-01-06", time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC), 0.0002, 0.998, PhaseNew},
		{"full moon 2000-01-21", time.Date(2000, 1, 21, 4, 40, 0, 0, time.UTC), 0.99994, 0.502, PhaseFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoonIllumination(tt.time)
			if math.Abs(got.Fraction-tt.wantFraction) > 0.005 {
				t.Errorf("Fraction = %v, want %v", got.Fraction, tt.wantFraction)
			}
			if d := math.Abs(got.Phase - tt.wantPhase); math.Min(d, 1-d) > 0.01 {
				t.Errorf("Phase = %v, want %v", got.Phase, tt.wantPhase)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %v, want %v", got.Name, tt.wantName)
			}
		})
	}
}

func TestMoonIllumination_Ranges(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 60*24; h += 5 {
		got := MoonIllumination(start.Add(time.Duration(h) * time.Hour))
		if got.Fraction < 0 || got.Fraction > 1 {
			t.Fatalf("Fraction %v outside [0, 1]", got.Fraction)
		}
		if got.Phase < 0 || got.Phase >= 1 {
			t.Fatalf("Phase %v outside [0, 1)", got.Phase)
		}
		if got.Name != ClassifyPhase(got.Phase) {
			t.Fatalf("Name %v does not match ClassifyPhase(%v)", got.Name, got.Phase)
		}
	}
}

func TestMoonIllumination_PhaseMonotonic(t *testing.T) {
	// Sampled hourly, the phase only grows except for one wrap per lunation.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prev := MoonIllumination(start).Phase
	wraps := 0
	for h := 1; h <= 365*24; h++ {
		cur := MoonIllumination(start.Add(time.Duration(h) * time.Hour)).Phase
		if cur < prev {
			if prev-cur < 0.9 {
				t.Fatalf("phase stepped back at hour %d: %v -> %v", h, prev, cur)
			}
			wraps++
		}
		prev = cur
	}
	// 365 days hold 12 or 13 new moons.
	if wraps < 12 || wraps > 13 {
		t.Errorf("wraps in a year = %d, want 12 or 13", wraps)
	}
}

func TestMoonIllumination_FractionTracksPhase(t *testing.T) {
	// A quarter moon is about half lit.
	fq := NextPhase(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), TargetFirstQuarter)
	got := MoonIllumination(fq)
	if math.Abs(got.Fraction-0.5) > 0.05 {
		t.Errorf("Fraction at first quarter = %v, want ~0.5", got.Fraction)
	}
	if !got.Waxing() {
		t.Error("first quarter should be waxing")
	}

	lq := NextPhase(fq, TargetLastQuarter)
	if w := MoonIllumination(lq.Add(time.Hour)).Waxing(); w {
		t.Error("just after last quarter should be waning")
	}
}

func TestClassifyPhase(t *testing.T) {
	tests := []struct {
		phase float64
		want  Phase
	}{
		{0, PhaseNew},
		{0.029, PhaseNew},
		{0.03, PhaseWaxingCrescent},
		{0.21, PhaseWaxingCrescent},
		{0.22, PhaseFirstQuarter},
		{0.25, PhaseFirstQuarter},
		{0.28, PhaseWaxingGibbous},
		{0.47, PhaseFull},
		{0.5, PhaseFull},
		{0.53, PhaseWaningGibbous},
		{0.72, PhaseLastQuarter},
		{0.75, PhaseLastQuarter},
		{0.78, PhaseWaningCrescent},
		{0.969, PhaseWaningCrescent},
		{0.97, PhaseNew},
		{0.999, PhaseNew},
		{1.25, PhaseFirstQuarter},
		{-0.5, PhaseFull},
	}

	for _, tt := range tests {
		if got := ClassifyPhase(tt.phase); got != tt.want {
			t.Errorf("ClassifyPhase(%v) = %v, want %v", tt.phase, got, tt.want)
		}
	}
}

func TestPhase_String(t *testing.T) {
	names := map[Phase]string{
		PhaseNew:            "New Moon",
		PhaseWaxingCrescent: "Waxing Crescent",
		PhaseFirstQuarter:   "First Quarter",
		PhaseWaxingGibbous:  "Waxing Gibbous",
		PhaseFull:           "Full Moon",
		PhaseWaningGibbous:  "Waning Gibbous",
		PhaseLastQuarter:    "Last Quarter",
		PhaseWaningCrescent: "Waning Crescent",
		Phase(42):           "Unknown",
	}
	for p, want := range names {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}

func TestNextPhase(t *testing.T) {
	tests := []struct {
		name   string
		from   time.Time
		target PhaseTarget
		want   time.Time
	}{
		{"new moon Jan 2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), TargetNew, time.Date(2024, 1, 11, 11, 57, 0, 0, time.UTC)},
		{"full moon Jan 2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), TargetFull, time.Date(2024, 1, 25, 17, 54, 0, 0, time.UTC)},
		{"new moon Jan 2000", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), TargetNew, time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)},
		{"full moon Jan 2000", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), TargetFull, time.Date(2000, 1, 21, 4, 40, 0, 0, time.UTC)},
	}

	// The truncated series places syzygies within a few hours.
	const tolerance = 6 * time.Hour

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextPhase(tt.from, tt.target)
			if got.IsZero() {
				t.Fatal("NextPhase() returned zero time")
			}
			if !got.After(tt.from) {
				t.Errorf("NextPhase() = %v, not after %v", got, tt.from)
			}
			if d := absDuration(got.Sub(tt.want)); d > tolerance {
				t.Errorf("NextPhase() = %v, want %v (±%v), off by %v", got, tt.want, tolerance, d)
			}
			if got.Location() != time.UTC {
				t.Errorf("location = %v, want UTC", got.Location())
			}
		})
	}
}

func TestNextPhase_Successive(t *testing.T) {
	// Consecutive new moons are one synodic month apart, give or take the
	// series' periodic terms.
	first := NextPhase(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), TargetNew)
	second := NextPhase(first.Add(time.Minute), TargetNew)

	gap := second.Sub(first).Hours() / 24
	if math.Abs(gap-SynodicMonth) > 1 {
		t.Errorf("gap between new moons = %.2f days, want ~%.2f", gap, SynodicMonth)
	}

	// At the instant found, the phase has just wrapped.
	p := MoonIllumination(first).Phase
	if p > 0.001 && p < 0.999 {
		t.Errorf("phase at new moon = %v, want ~0", p)
	}
}

func TestLunarIllumination_AgeDays(t *testing.T) {
	l := LunarIllumination{Phase: 0.5}
	if got := l.AgeDays(); math.Abs(got-SynodicMonth/2) > 1e-9 {
		t.Errorf("AgeDays() = %v, want %v", got, SynodicMonth/2)
	}
	if (LunarIllumination{Phase: 0}).AgeDays() != 0 {
		t.Error("AgeDays() at new moon should be 0")
	}
}
