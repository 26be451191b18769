package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/state"
)

const (
	// Field of view in degrees
	fovAz = 120.0
	fovEl = 90.0

	// maxStarMag is the faintest star drawn.
	maxStarMag = 2.1

	// panStep is how far one arrow key turns the camera.
	panStep = 15.0

	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	glyphSun        = '☀'
	glyphMoon       = '☾'
	glyphStarBright = '✶' // mag < 1.0
	glyphStarMedium = '✸' // mag 1.0-1.8
	glyphStarDim    = '·'

	colorSun        = "220"
	colorMoon       = "230"
	colorFocusLabel = "229"
	colorLabel      = "#d0c8ff"
	colorStarBright = "255"
	colorStarMedium = "250"
	colorStarDim    = "244"
)

// LabelMode controls which bodies are labeled.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused body
	LabelAll                      // Sun, Moon and bright stars
)

// focusTarget is the body the camera follows.
type focusTarget int

const (
	focusSun focusTarget = iota
	focusMoon
)

// SkyViewModel renders the sky above the observer with the Sun, Moon and
// bright stars.
type SkyViewModel struct {
	width  int
	height int

	// Camera azimuth at the center of view. The bottom edge is always the
	// horizon.
	camAz float64

	animating   bool
	animStartAz float64
	animTargAz  float64
	animStart   time.Time

	focus     focusTarget
	labelMode LabelMode
	showStars bool

	reading     *almanac.Reading
	starCatalog astro.StarCatalog
}

// NewSkyViewModel creates a new sky view model.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{
		camAz:       180,
		labelMode:   LabelFocused,
		showStars:   true,
		starCatalog: astro.DefaultStarCatalog(),
	}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with a new snapshot. The first reading points the
// camera at the focused body.
func (m SkyViewModel) UpdateData(snapshot state.Snapshot) SkyViewModel {
	first := m.reading == nil
	m.reading = snapshot.Reading
	if first && m.reading != nil && !m.animating {
		m.camAz = m.focusAzimuth()
	}
	return m
}

// animTickMsg drives the camera animation.
type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left":
			m.animating = false
			m.camAz = wrap360(m.camAz - panStep)
		case "right":
			m.animating = false
			m.camAz = wrap360(m.camAz + panStep)
		case "f":
			if m.focus == focusSun {
				m.focus = focusMoon
			} else {
				m.focus = focusSun
			}
			return m.startAnimation()
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "t":
			m.showStars = !m.showStars
		}

	case animTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}

	return m, nil
}

func (m SkyViewModel) focusAzimuth() float64 {
	if m.reading == nil {
		return m.camAz
	}
	if m.focus == focusMoon {
		return m.reading.Moon.Position.AzimuthDeg
	}
	return m.reading.Sun.Position.AzimuthDeg
}

func (m SkyViewModel) startAnimation() (SkyViewModel, tea.Cmd) {
	if m.reading == nil {
		return m, nil
	}
	m.animating = true
	m.animStartAz = m.camAz
	m.animTargAz = m.focusAzimuth()
	m.animStart = time.Now()
	return m, animTick()
}

func (m SkyViewModel) updateAnimation() (SkyViewModel, tea.Cmd) {
	t := float64(time.Since(m.animStart)) / float64(animDuration)
	if t >= 1.0 {
		m.animating = false
		m.camAz = m.animTargAz
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)
	m.camAz = wrap360(lerpAngle(m.animStartAz, m.animTargAz, t))
	return m, animTick()
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}
	if m.reading == nil {
		return "Waiting for first reading...\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSkyCanvas(m.width, m.height-4))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m SkyViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))

	var labelStr string
	switch m.labelMode {
	case LabelNone:
		labelStr = dimStyle.Render("Labels: off")
	case LabelFocused:
		labelStr = accentStyle.Render("Labels: focus")
	case LabelAll:
		labelStr = accentStyle.Render("Labels: all")
	}

	stars := dimStyle.Render("Stars: off")
	if m.showStars {
		stars = accentStyle.Render("Stars: on")
	}

	compass := dimStyle.Render(fmt.Sprintf("Az:%.0f° %s", m.camAz, astro.CompassPoint(m.camAz)))
	return fmt.Sprintf("%s | %s | %s | %s", titleStyle.Render("Sky View"), labelStr, stars, compass)
}

func (m SkyViewModel) renderStatus() string {
	r := m.reading
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFocusLabel))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))

	name := "Sun"
	alt, az := r.Sun.Position.AltitudeDeg, r.Sun.Position.AzimuthDeg
	other := fmt.Sprintf("Moon %s %.0f°", astro.CompassPoint(r.Moon.Position.AzimuthDeg), r.Moon.Position.AltitudeDeg)
	if m.focus == focusMoon {
		name = "Moon"
		alt, az = r.Moon.Position.AltitudeDeg, r.Moon.Position.AzimuthDeg
		other = fmt.Sprintf("Sun %s %.0f°", astro.CompassPoint(r.Sun.Position.AzimuthDeg), r.Sun.Position.AltitudeDeg)
	}

	line := fmt.Sprintf(">>> %s | Az:%.0f° %s El:%.0f°", name, az, astro.CompassPoint(az), alt)
	if alt < 0 {
		line += " (below horizon)"
	}
	return accentStyle.Render(line) + "\n" + dimStyle.Render("    "+other)
}

// bodyPos tracks a drawn body for label rendering.
type bodyPos struct {
	x, y      int
	name      string
	isFocused bool
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	horizonY := height - 2
	r := m.reading
	obs := r.Site.Observer
	var positions []bodyPos

	if m.showStars {
		for _, star := range m.starCatalog.Brighter(maxStarMag) {
			pos, err := star.Position(r.At, obs.LatDeg, obs.LonDeg)
			if err != nil || pos.AltitudeDeg <= 0 {
				continue
			}
			x, y, visible := m.projectToScreen(pos.AzimuthDeg, pos.AltitudeDeg, width, height)
			if !visible || x < 0 || x >= width || y < 0 || y >= horizonY {
				continue
			}
			glyph, color := starGlyph(star.Mag)
			canvas[y][x] = glyph
			colors[y][x] = color
			if star.Mag < 1.0 {
				positions = append(positions, bodyPos{x: x, y: y, name: star.Name})
			}
		}
	}

	for x := 0; x < width; x++ {
		canvas[horizonY][x] = '─'
		colors[horizonY][x] = "60"
	}

	m.drawCardinal(canvas, colors, width, height, "N", 0)
	m.drawCardinal(canvas, colors, width, height, "E", 90)
	m.drawCardinal(canvas, colors, width, height, "S", 180)
	m.drawCardinal(canvas, colors, width, height, "W", 270)

	bodies := []struct {
		name    string
		glyph   rune
		color   lipgloss.Color
		alt, az float64
		target  focusTarget
	}{
		{"Moon", glyphMoon, colorMoon, r.Moon.Position.AltitudeDeg, r.Moon.Position.AzimuthDeg, focusMoon},
		{"Sun", glyphSun, colorSun, r.Sun.Position.AltitudeDeg, r.Sun.Position.AzimuthDeg, focusSun},
	}
	for _, body := range bodies {
		if body.alt <= 0 {
			continue
		}
		x, y, visible := m.projectToScreen(body.az, body.alt, width, height)
		if !visible || x < 0 || x >= width || y < 0 || y >= horizonY {
			continue
		}
		canvas[y][x] = body.glyph
		colors[y][x] = body.color
		positions = append(positions, bodyPos{x: x, y: y, name: body.name, isFocused: body.target == m.focus})
	}

	m.renderLabels(canvas, colors, width, horizonY, positions)

	observerX := width / 2
	observerY := height - 1
	if observerY >= 0 && observerX >= 0 && observerX < width {
		canvas[observerY][observerX] = '▲'
		colors[observerY][observerX] = "46"
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderLabels draws labels to the right of each body. The focused body's
// label wins where labels overlap.
func (m SkyViewModel) renderLabels(canvas [][]rune, colors [][]lipgloss.Color, width, horizonY int, positions []bodyPos) {
	if m.labelMode == LabelNone || len(positions) == 0 {
		return
	}

	focusedClaims := make(map[int]map[int]bool)
	for _, pos := range positions {
		if !pos.isFocused {
			continue
		}
		if focusedClaims[pos.y] == nil {
			focusedClaims[pos.y] = make(map[int]bool)
		}
		for x := pos.x + 2; x < pos.x+4+len(pos.name); x++ {
			focusedClaims[pos.y][x] = true
		}
	}

	for _, pos := range positions {
		if m.labelMode == LabelFocused && !pos.isFocused {
			continue
		}

		labelColor := lipgloss.Color(colorLabel)
		labelText := pos.name
		if pos.isFocused {
			labelColor = colorFocusLabel
			labelText = "◄ " + pos.name
		}

		for i, r := range []rune(labelText) {
			x := pos.x + 2 + i
			if x < 0 || x >= width || pos.y < 0 || pos.y >= horizonY {
				continue
			}
			if !pos.isFocused && focusedClaims[pos.y][x] {
				continue
			}
			canvas[pos.y][x] = r
			colors[pos.y][x] = labelColor
		}
	}
}

// starGlyph returns the glyph and color for a star's magnitude.
func starGlyph(mag float64) (rune, lipgloss.Color) {
	switch {
	case mag < 1.0:
		return glyphStarBright, colorStarBright
	case mag < 1.8:
		return glyphStarMedium, colorStarMedium
	default:
		return glyphStarDim, colorStarDim
	}
}

func (m SkyViewModel) drawCardinal(canvas [][]rune, colors [][]lipgloss.Color, width, height int, label string, az float64) {
	x, _, visible := m.projectToScreen(az, 0, width, height)
	if !visible {
		return
	}
	y := height - 2
	if x >= 0 && x < width && y >= 0 && y < height {
		canvas[y][x] = rune(label[0])
		colors[y][x] = "252"
	}
}

// projectToScreen maps az/el to canvas cells. Elevation 0 lands on the
// horizon row and the zenith at the top.
func (m SkyViewModel) projectToScreen(az, el float64, width, height int) (int, int, bool) {
	dAz := normalizeAngle(az - m.camAz)
	if dAz < -fovAz/2 || dAz > fovAz/2 {
		return 0, 0, false
	}
	if el < 0 || el > fovEl {
		return 0, 0, false
	}

	horizonY := height - 2
	x := int((dAz + fovAz/2) / fovAz * float64(width))
	y := int((fovEl - el) / fovEl * float64(horizonY))
	return x, y, true
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

func wrap360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	return a + normalizeAngle(b-a)*t
}
