package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/power"
	"github.com/litescript/ls-almanac/internal/state"
)

// Styles shared by the views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("94"))

	pastRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// SunViewModel shows the Sun's position, the day's events, solar power and
// the season.
type SunViewModel struct {
	width      int
	height     int
	cursor     int
	showEvents bool
	animTick   int

	snapshot     state.Snapshot
	trace        *almanac.AltitudeTrace
	traceLoading bool
	traceErr     error
	lastErr      error
}

// NewSunViewModel creates a new sun view model.
func NewSunViewModel() SunViewModel {
	return SunViewModel{}
}

// SetSize updates the viewport size.
func (m SunViewModel) SetSize(width, height int) SunViewModel {
	m.width = width
	m.height = height
	return m
}

// SetAnimTick updates the animation frame.
func (m SunViewModel) SetAnimTick(tick int) SunViewModel {
	m.animTick = tick
	return m
}

// UpdateData updates the model with a new snapshot.
func (m SunViewModel) UpdateData(snapshot state.Snapshot) SunViewModel {
	m.snapshot = snapshot
	if snapshot.LastError == nil {
		m.lastErr = nil
	}
	if r := snapshot.Reading; r != nil && m.cursor == 0 {
		m.cursor = nextEventIndex(r.Sun.Times.Events(), r.At)
	}
	return m
}

// UpdateTraces updates the altitude trace.
func (m SunViewModel) UpdateTraces(t Traces, loading bool, err error) SunViewModel {
	m.trace = t.Sun
	m.traceLoading = loading
	m.traceErr = err
	return m
}

// SetError sets the last error for display.
func (m SunViewModel) SetError(err error) SunViewModel {
	m.lastErr = err
	return m
}

// Update handles messages.
func (m SunViewModel) Update(msg tea.Msg) (SunViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		count := 0
		if m.snapshot.Reading != nil {
			count = len(m.snapshot.Reading.Sun.Times.Events())
		}

		switch msg.String() {
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < count-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if count > 0 {
				m.cursor = count - 1
			}
		case "e":
			m.showEvents = !m.showEvents
		}
	}
	return m, nil
}

// View renders the sun view.
func (m SunViewModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	r := m.snapshot.Reading
	if r == nil {
		if m.lastErr == nil {
			b.WriteString("Waiting for first reading...\n")
		}
		return b.String()
	}

	b.WriteString(m.renderPosition(r))
	b.WriteString("\n")
	b.WriteString(renderAltitudeSparkline(m.trace, r.At, m.traceLoading, m.traceErr, m.animTick))
	b.WriteString("\n")
	b.WriteString(sparklineAxis(m.trace))
	if m.trace != nil {
		if peak := m.trace.Peak(); peak != nil {
			b.WriteString(labelStyle.Render(fmt.Sprintf("  peak %.0f° at %s", peak.AltitudeDeg, peak.Time.In(r.At.Location()).Format("15:04"))))
		}
	}
	b.WriteString("\n\n")

	if m.showEvents {
		b.WriteString(renderEventLog(m.snapshot.Events, 10))
		return b.String()
	}

	left := m.renderEventsTable(r)
	right := m.renderPower(r) + "\n" + m.renderSeason(r)
	if m.width >= 100 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
	} else {
		b.WriteString(left)
		b.WriteString("\n")
		b.WriteString(right)
	}

	return b.String()
}

func (m SunViewModel) renderPosition(r *almanac.Reading) string {
	var b strings.Builder
	sun := r.Sun

	b.WriteString(titleStyle.Render("☀ Sun"))
	b.WriteString("  ")
	b.WriteString(tierStyle(sun.Position.AltitudeDeg).Render(fmt.Sprintf("alt %6.2f°", sun.Position.AltitudeDeg)))
	b.WriteString(rowStyle.Render(fmt.Sprintf("  az %6.2f° %-3s", sun.Position.AzimuthDeg, sun.Compass)))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  dec %+.2f°", sun.Position.DeclinationDeg)))
	b.WriteString("\n")

	switch {
	case sun.HasDaylight:
		b.WriteString(labelStyle.Render("Daylight "))
		b.WriteString(renderProgressBar(sun.Progress, 30, lipgloss.Color("220")))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %3.0f%%  day %s", sun.Progress*100, almanac.FormatDuration(sun.Times.DayLength()))))
	case sun.Times.PolarDay:
		b.WriteString(rowStyle.Render("Polar day: the Sun does not set"))
	case sun.Times.PolarNight:
		b.WriteString(labelStyle.Render("Polar night: the Sun does not rise"))
	}
	b.WriteString("\n")
	return b.String()
}

// tierStyle colors an altitude by elevation tier.
func tierStyle(alt float64) lipgloss.Style {
	switch astro.GetElevationTier(alt) {
	case astro.ElevationHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	case astro.ElevationMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	case astro.ElevationLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	}
}

// nextEventIndex returns the index of the first observed event after t.
func nextEventIndex(events []astro.SolarEvent, t time.Time) int {
	for i, e := range events {
		if e.Observed && e.Time.After(t) {
			return i
		}
	}
	return 0
}

func (m SunViewModel) renderEventsTable(r *almanac.Reading) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Today"))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-18s %-8s %-8s", "Event", "Time", "In")))
	b.WriteString("\n")

	loc := r.At.Location()
	for i, e := range r.Sun.Times.Events() {
		when := e.Format("15:04:05")
		until := "--"
		if e.Observed {
			when = e.Time.In(loc).Format("15:04:05")
			if e.Time.After(r.At) {
				until = formatCountdown(e.Time.Sub(r.At))
			} else {
				until = "done"
			}
		}
		row := fmt.Sprintf("%-18s %-8s %-8s", truncate(e.Name, 18), when, until)

		switch {
		case i == m.cursor:
			b.WriteString(selectedRowStyle.Render(row))
		case !e.Observed || !e.Time.After(r.At):
			b.WriteString(pastRowStyle.Render(row))
		default:
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m SunViewModel) renderPower(r *almanac.Reading) string {
	var b strings.Builder
	rated := r.Site.Panels.RatedWatts()

	b.WriteString(titleStyle.Render("Solar Power"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Array      %d × %.0f W = %s\n", r.Site.Panels.Count, r.Site.Panels.Watts, power.FormatWatts(rated))))
	b.WriteString(labelStyle.Render("Irradiance "))
	b.WriteString(rowStyle.Render(fmt.Sprintf("%.0f W/m²\n", r.Power.IrradianceWm2)))
	b.WriteString(labelStyle.Render("Estimate   "))
	b.WriteString(rowStyle.Render(power.FormatWatts(r.Power.PowerW)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("True power "))
	share := 0.0
	if rated > 0 {
		share = r.Power.TruePowerW / rated
	}
	b.WriteString(renderProgressBar(share, 16, lipgloss.Color("46")))
	b.WriteString(rowStyle.Render(" " + power.FormatWatts(r.Power.TruePowerW)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("Best tilt  %.0f° facing %s\n", r.Tilt.TiltDeg, r.Tilt.Facing)))
	return b.String()
}

func (m SunViewModel) renderSeason(r *almanac.Reading) string {
	var b strings.Builder
	s := r.Season
	if s.Name == "" {
		return ""
	}

	b.WriteString(titleStyle.Render("Season"))
	b.WriteString("\n")
	b.WriteString(rowStyle.Render(fmt.Sprintf("%-7s", s.Name)))
	b.WriteString(renderProgressBar(s.Progress, 16, lipgloss.Color("111")))
	b.WriteString(rowStyle.Render(fmt.Sprintf(" %3.0f%%", s.Progress*100)))
	b.WriteString("\n")
	next := s.Next.Time.In(r.At.Location())
	b.WriteString(labelStyle.Render(fmt.Sprintf("%s %s (%s)\n", s.Next.Name, next.Format("Jan 2 15:04"), formatCountdown(next.Sub(r.At)))))
	return b.String()
}

// renderEventLog renders the most recent state events.
func renderEventLog(events []state.Event, n int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Event Log"))
	b.WriteString("\n")
	if len(events) == 0 {
		b.WriteString(labelStyle.Render("  No events yet"))
		b.WriteString("\n")
		return b.String()
	}
	if len(events) > n {
		events = events[len(events)-n:]
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		b.WriteString(labelStyle.Render(e.Timestamp.Format("15:04:05")))
		b.WriteString("  ")
		b.WriteString(eventStyle(e.Type).Render(fmt.Sprintf("%-12s", e.Type)))
		b.WriteString(" ")
		b.WriteString(rowStyle.Render(e.Detail))
		b.WriteString("\n")
	}
	return b.String()
}

func eventStyle(t state.EventType) lipgloss.Style {
	switch t {
	case state.EventSunrise, state.EventSunset:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	case state.EventMoonrise, state.EventMoonset:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("153"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("183"))
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
