// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/state"
	"github.com/litescript/ls-almanac/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewSun ViewMode = iota
	ViewMoon
	ViewSky
)

// viewCount is the number of tabs.
const viewCount = 3

// traceMaxAge is how long altitude traces and pass plans stay valid before
// they are recomputed.
const traceMaxAge = 10 * time.Minute

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new reading is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a compute error.
	ErrorMsg struct {
		Error error
	}

	// tracesUpdatedMsg carries background trace and pass computations.
	tracesUpdatedMsg struct {
		traces Traces
		err    error
	}
)

// Traces holds the slower derived data computed off the update path.
type Traces struct {
	Sun      *almanac.AltitudeTrace
	Moon     *almanac.AltitudeTrace
	Passes   *almanac.PassPlan
	Computed time.Time // reading instant the traces were built around
	Site     string
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state *state.Manager

	// UI state
	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int

	// Sub-models
	sunView  SunViewModel
	moonView MoonViewModel
	skyView  SkyViewModel

	// Data snapshot (updated on DataUpdateMsg)
	snapshot state.Snapshot

	traces        Traces
	tracesLoading bool
	tracesErr     error
}

// New creates a new root UI model.
func New(stateMgr *state.Manager) Model {
	return Model{
		state:    stateMgr,
		viewMode: ViewSun,
		sunView:  NewSunViewModel(),
		moonView: NewMoonViewModel(),
		skyView:  NewSkyViewModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "s":
			m.viewMode = ViewSun
		case "2", "m":
			m.viewMode = ViewMoon
		case "3", "k":
			m.viewMode = ViewSky

		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 13
		m.sunView = m.sunView.SetSize(msg.Width, contentHeight)
		m.moonView = m.moonView.SetSize(msg.Width, contentHeight)
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		if m.state != nil {
			m.snapshot = m.state.Snapshot()
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++
		m.sunView = m.sunView.SetAnimTick(m.animTick)
		m.moonView = m.moonView.SetAnimTick(m.animTick)

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.sunView = m.sunView.UpdateData(m.snapshot)
		m.moonView = m.moonView.UpdateData(m.snapshot)
		m.skyView = m.skyView.UpdateData(m.snapshot)
		if cmd := m.maybeRefreshTraces(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tracesUpdatedMsg:
		m.tracesLoading = false
		m.tracesErr = msg.err
		if msg.err == nil {
			m.traces = msg.traces
		}
		m.sunView = m.sunView.UpdateTraces(m.traces, m.tracesLoading, m.tracesErr)
		m.moonView = m.moonView.UpdateTraces(m.traces, m.tracesLoading, m.tracesErr)

	case ErrorMsg:
		m.sunView = m.sunView.SetError(msg.Error)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewSun:
		m.sunView, cmd = m.sunView.Update(msg)
	case ViewMoon:
		m.moonView, cmd = m.moonView.Update(msg)
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	}
	return cmd
}

// maybeRefreshTraces starts a background trace computation when the
// current traces are missing, stale, or belong to another site.
func (m *Model) maybeRefreshTraces() tea.Cmd {
	r := m.snapshot.Reading
	if r == nil || m.tracesLoading {
		return nil
	}
	site := siteKey(r)
	fresh := m.traces.Sun != nil &&
		m.traces.Site == site &&
		absDuration(r.At.Sub(m.traces.Computed)) < traceMaxAge
	if fresh {
		return nil
	}

	m.tracesLoading = true
	m.sunView = m.sunView.UpdateTraces(m.traces, true, nil)
	m.moonView = m.moonView.UpdateTraces(m.traces, true, nil)
	return computeTracesCmd(r)
}

func computeTracesCmd(r *almanac.Reading) tea.Cmd {
	obs := r.Site.Observer
	at := r.At
	site := siteKey(r)
	return func() tea.Msg {
		sun, err := almanac.ComputeAltitudeTrace(almanac.BodySun, obs, at)
		if err != nil {
			return tracesUpdatedMsg{err: err}
		}
		moon, err := almanac.ComputeAltitudeTrace(almanac.BodyMoon, obs, at)
		if err != nil {
			return tracesUpdatedMsg{err: err}
		}
		passes, err := almanac.ComputeMoonPasses(at, obs, 2)
		if err != nil {
			return tracesUpdatedMsg{err: err}
		}
		return tracesUpdatedMsg{traces: Traces{
			Sun:      sun,
			Moon:     moon,
			Passes:   passes,
			Computed: at,
			Site:     site,
		}}
	}
}

func siteKey(r *almanac.Reading) string {
	return fmt.Sprintf("%.4f,%.4f", r.Site.Observer.LatDeg, r.Site.Observer.LonDeg)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewSun:
		content = m.sunView.View()
	case ViewMoon:
		content = m.moonView.View()
	case ViewSky:
		content = m.skyView.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗       █████╗ ██╗     ███╗   ███╗ █████╗ ███╗   ██╗ █████╗  ██████╗`,
		`  ██║     ██╔════╝      ██╔══██╗██║     ████╗ ████║██╔══██╗████╗  ██║██╔══██╗██╔════╝`,
		`  ██║     ███████╗█████╗███████║██║     ██╔████╔██║███████║██╔██╗ ██║███████║██║     `,
		`  ██║     ╚════██║╚════╝██╔══██║██║     ██║╚██╔╝██║██╔══██║██║╚██╗██║██╔══██║██║     `,
		`  ███████╗███████║      ██║  ██║███████╗██║ ╚═╝ ██║██║  ██║██║ ╚████║██║  ██║╚██████╗`,
		`  ╚══════╝╚══════╝      ╚═╝  ╚═╝╚══════╝╚═╝     ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝ ╚═════╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		lineLen := len(runes)

		for col, r := range runes {
			color := gradientColor(col, row, lineLen, len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	tagline := fmt.Sprintf("  Sun · Moon · Sky | v%s", version.Version)
	if r := m.snapshot.Reading; r != nil {
		tagline += " | " + siteLabel(r)
	}
	b.WriteString(muted.Render(tagline))
	b.WriteString("\n\n")

	return b.String()
}

func siteLabel(r *almanac.Reading) string {
	obs := r.Site.Observer
	coords := almanac.FormatCoords(obs.LatDeg, obs.LonDeg)
	if obs.Name == "" {
		return coords
	}
	return obs.Name + " " + coords
}

// gradientColor returns a hex color for a position in the logo gradient:
// deep blue through amber to pale gold, a dawn sky.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	switch {
	case xRatio < 0.33:
		// Night blue to violet
		t := xRatio / 0.33
		r = 30 + t*(124-30)
		g = 58 + t*(58-58)
		b = 138 + t*(237-138)
	case xRatio < 0.66:
		// Violet to amber
		t := (xRatio - 0.33) / 0.33
		r = 124 + t*(245-124)
		g = 58 + t*(158-58)
		b = 237 + t*(11-237)
	default:
		// Amber to pale gold
		t := (xRatio - 0.66) / 0.34
		r = 245 + t*(253-245)
		g = 158 + t*(230-158)
		b = 11 + t*(138-11)
	}

	brightness := 1.0 - (yRatio * 0.5)
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*brightness), clampByte(g*brightness), clampByte(b*brightness))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return int(v)
	}
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Sun", "[2] Moon", "[3] Sky"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#B45309"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.hasData():
		refresh := time.Duration(0)
		if m.state != nil {
			refresh = m.state.RefreshInterval()
		}
		countdown := time.Until(m.snapshot.LastUpdate.Add(refresh)).Round(time.Second)
		if countdown < 0 {
			countdown = 0
		}
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" refresh in %ds", int(countdown.Seconds())))
		if m.snapshot.ComputeDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.ComputeDuration.Round(time.Microsecond).String() + ")")
		}
	default:
		status = accentStyle.Render(spinner) + " " + renderShimmerText("Computing...", m.animTick)
	}

	var help string
	switch m.viewMode {
	case ViewMoon:
		help = dimStyle.Render("p: passes | tab: switch view | q: quit")
	case ViewSky:
		help = dimStyle.Render("←/→: pan | f: focus sun/moon | l: labels | t: stars")
	default:
		help = dimStyle.Render("e: events | tab: switch view | q: quit")
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

// hasData reports whether a reading has arrived. The manager is the source
// of truth when one is attached.
func (m Model) hasData() bool {
	if m.state != nil {
		return m.state.HasData()
	}
	return m.snapshot.Reading != nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// renderShimmerText renders text with a subtle moving shine effect.
func renderShimmerText(text string, tick int) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	pos := tick % (textLen + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 250, 220, 150
		case dist <= 3:
			r8, g8, b8 = 200, 170, 110
		case dist <= 5:
			r8, g8, b8 = 150, 125, 90
		default:
			r8, g8, b8 = 110, 95, 80
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
