package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/state"
)

var (
	nowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	nextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))
)

// MoonViewModel shows the Moon's position, phase and passes.
type MoonViewModel struct {
	width         int
	height        int
	showPassPanel bool
	animTick      int

	snapshot     state.Snapshot
	trace        *almanac.AltitudeTrace
	passes       *almanac.PassPlan
	traceLoading bool
	traceErr     error
}

// NewMoonViewModel creates a new moon view model.
func NewMoonViewModel() MoonViewModel {
	return MoonViewModel{showPassPanel: true}
}

// SetSize updates the viewport size.
func (m MoonViewModel) SetSize(width, height int) MoonViewModel {
	m.width = width
	m.height = height
	return m
}

// SetAnimTick updates the animation frame.
func (m MoonViewModel) SetAnimTick(tick int) MoonViewModel {
	m.animTick = tick
	return m
}

// UpdateData updates the model with a new snapshot.
func (m MoonViewModel) UpdateData(snapshot state.Snapshot) MoonViewModel {
	m.snapshot = snapshot
	return m
}

// UpdateTraces updates the altitude trace and pass plan.
func (m MoonViewModel) UpdateTraces(t Traces, loading bool, err error) MoonViewModel {
	m.trace = t.Moon
	m.passes = t.Passes
	m.traceLoading = loading
	m.traceErr = err
	return m
}

// ShowPassPanel returns whether the pass panel is visible.
func (m MoonViewModel) ShowPassPanel() bool {
	return m.showPassPanel
}

// Update handles messages.
func (m MoonViewModel) Update(msg tea.Msg) (MoonViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "p" {
			m.showPassPanel = !m.showPassPanel
		}
	}
	return m, nil
}

// View renders the moon view.
func (m MoonViewModel) View() string {
	r := m.snapshot.Reading
	if r == nil {
		return "Waiting for first reading...\n"
	}

	var b strings.Builder
	b.WriteString(m.renderPhase(r))
	b.WriteString("\n")
	b.WriteString(m.renderPosition(r))
	b.WriteString("\n")
	b.WriteString(renderAltitudeSparkline(m.trace, r.At, m.traceLoading, m.traceErr, m.animTick))
	b.WriteString("\n")
	b.WriteString(sparklineAxis(m.trace))
	b.WriteString("\n\n")

	left := m.renderTimes(r)
	if m.showPassPanel {
		right := m.renderPassPanel(r.At)
		if m.width >= 100 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
		} else {
			b.WriteString(left)
			b.WriteString("\n")
			b.WriteString(right)
		}
	} else {
		b.WriteString(left)
	}
	return b.String()
}

// phaseGlyph returns the moon emoji for a phase.
func phaseGlyph(p astro.Phase) string {
	switch p {
	case astro.PhaseNew:
		return "🌑"
	case astro.PhaseWaxingCrescent:
		return "🌒"
	case astro.PhaseFirstQuarter:
		return "🌓"
	case astro.PhaseWaxingGibbous:
		return "🌔"
	case astro.PhaseFull:
		return "🌕"
	case astro.PhaseWaningGibbous:
		return "🌖"
	case astro.PhaseLastQuarter:
		return "🌗"
	default:
		return "🌘"
	}
}

func (m MoonViewModel) renderPhase(r *almanac.Reading) string {
	var b strings.Builder
	ill := r.Moon.Illumination

	b.WriteString(titleStyle.Render(phaseGlyph(ill.Name) + " Moon"))
	b.WriteString("  ")
	b.WriteString(rowStyle.Render(ill.Name.String()))
	trend := "waning"
	if ill.Waxing() {
		trend = "waxing"
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("  (%s, age %.1f d)", trend, ill.AgeDays())))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Illuminated "))
	b.WriteString(renderProgressBar(ill.Fraction, 30, lipgloss.Color("230")))
	b.WriteString(rowStyle.Render(fmt.Sprintf(" %5.1f%%", ill.Fraction*100)))
	b.WriteString("\n")
	return b.String()
}

func (m MoonViewModel) renderPosition(r *almanac.Reading) string {
	var b strings.Builder
	moon := r.Moon

	b.WriteString(tierStyle(moon.Position.AltitudeDeg).Render(fmt.Sprintf("alt %6.2f°", moon.Position.AltitudeDeg)))
	b.WriteString(rowStyle.Render(fmt.Sprintf("  az %6.2f° %-3s", moon.Position.AzimuthDeg, moon.Compass)))
	b.WriteString(labelStyle.Render("  " + almanac.FormatDistance(moon.Position.DistanceKm)))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Sun sep "))
	sep := fmt.Sprintf("%.0f°", moon.SunSepDeg)
	switch astro.GetSunSeparationTier(moon.SunSepDeg) {
	case astro.SunSepWarning:
		b.WriteString(errorStyle.Render(sep + " lost in glare"))
	case astro.SunSepCaution:
		b.WriteString(warningStyle.Render(sep + " near the Sun"))
	default:
		b.WriteString(rowStyle.Render(sep))
	}

	if moon.Up {
		b.WriteString(labelStyle.Render("   Arc "))
		b.WriteString(renderProgressBar(moon.ArcProgress, 16, lipgloss.Color("153")))
	}
	b.WriteString("\n")
	return b.String()
}

func (m MoonViewModel) renderTimes(r *almanac.Reading) string {
	var b strings.Builder
	loc := r.At.Location()
	moon := r.Moon

	b.WriteString(titleStyle.Render("Today"))
	b.WriteString("\n")
	switch {
	case moon.Today.AlwaysUp:
		b.WriteString(rowStyle.Render("Above the horizon all day"))
		b.WriteString("\n")
	case moon.Today.AlwaysDown:
		b.WriteString(labelStyle.Render("Below the horizon all day"))
		b.WriteString("\n")
	default:
		b.WriteString(labelStyle.Render("Rise     "))
		b.WriteString(rowStyle.Render(localFormat(moon.Today.Rise, loc, "15:04")))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Set      "))
		b.WriteString(rowStyle.Render(localFormat(moon.Today.Set, loc, "15:04")))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("Transit  "))
	b.WriteString(rowStyle.Render(localFormat(moon.Today.Transit, loc, "15:04")))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  peak %.0f°", moon.Today.MaxAltitudeDeg)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Next rise "))
	b.WriteString(nextStyle.Render(countdownTo(moon.NextRise, r.At)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Next set  "))
	b.WriteString(nextStyle.Render(countdownTo(moon.NextSet, r.At)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("New moon  "))
	b.WriteString(rowStyle.Render(moon.NextNew.In(loc).Format("Jan 2 15:04")))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Full moon "))
	b.WriteString(rowStyle.Render(moon.NextFull.In(loc).Format("Jan 2 15:04")))
	b.WriteString("\n")
	return b.String()
}

func localFormat(e astro.EventTime, loc *time.Location, layout string) string {
	if !e.Observed {
		return "--"
	}
	return e.Time.In(loc).Format(layout)
}

func countdownTo(e astro.EventTime, now time.Time) string {
	if !e.Observed {
		return "--"
	}
	return fmt.Sprintf("%s (in %s)", e.Time.In(now.Location()).Format("Mon 15:04"), formatCountdown(e.Time.Sub(now)))
}

// renderPassPanel lists moon passes with their status.
func (m MoonViewModel) renderPassPanel(now time.Time) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Passes"))
	b.WriteString("\n")

	if m.passes == nil || len(m.passes.Passes) == 0 {
		switch {
		case m.traceErr != nil:
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %v", m.traceErr)))
		case m.traceLoading:
			b.WriteString("  ")
			b.WriteString(renderShimmerText("Computing passes...", m.animTick))
		default:
			b.WriteString(dimStyle.Render("  No passes in window"))
		}
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(labelStyle.Render("  RISE          SET           STATUS"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 36)))
	b.WriteString("\n")

	loc := now.Location()
	// only the most recent past pass is shown
	lastPast := -1
	for i, p := range m.passes.Passes {
		if p.Status == almanac.PassPast {
			lastPast = i
		}
	}

	for i, p := range m.passes.Passes {
		if p.Status == almanac.PassPast && i != lastPast {
			continue
		}
		b.WriteString("  ")
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-12s  %-12s  ", localFormat(p.Rise, loc, "Mon 15:04"), localFormat(p.Set, loc, "Mon 15:04"))))
		switch p.Status {
		case almanac.PassNow:
			b.WriteString(nowStyle.Render("NOW"))
		case almanac.PassNext:
			b.WriteString(nextStyle.Render("NEXT"))
		case almanac.PassPast:
			b.WriteString(dimStyle.Render("PAST"))
		default:
			b.WriteString(dimStyle.Render("-"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if current := m.passes.CurrentPass(); current != nil && current.Set.Observed {
		b.WriteString(nowStyle.Render(fmt.Sprintf("  ▶ Up now, sets in %s", formatCountdown(current.Set.Time.Sub(now)))))
		b.WriteString("\n")
	}
	if next := m.passes.NextPass(); next != nil && next.Rise.Observed {
		b.WriteString(nextStyle.Render(fmt.Sprintf("  ▷ Next rise in %s", formatCountdown(next.Rise.Time.Sub(now)))))
		b.WriteString("\n")
	}
	return b.String()
}
