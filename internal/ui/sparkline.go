package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/almanac"
)

// SparklineWidth is the fixed width of the altitude sparkline.
const SparklineWidth = 48

// sparklineBlocks are the Unicode block characters for sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparklineFloor is the altitude drawn as the lowest block. Anything lower
// is night for the Sun.
const sparklineFloor = -18.0

var (
	altColorLow  = [3]uint8{0x1b, 0x2b, 0x4b} // below horizon, dark blue
	altColorMid  = [3]uint8{0x34, 0x78, 0xc0} // low sky, blue
	altColorHigh = [3]uint8{0xfd, 0xe6, 0x8a} // high sky, pale gold
)

// renderAltitudeSparkline renders a ±12h altitude trace centred on now.
func renderAltitudeSparkline(trace *almanac.AltitudeTrace, now time.Time, loading bool, err error, tick int) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if loading && trace == nil {
		return renderShimmerSparkline("Computing altitude trace...", tick)
	}
	if err != nil {
		return dimStyle.Render("Error: " + err.Error())
	}
	if trace == nil || len(trace.Samples) == 0 {
		return dimStyle.Render("No altitude trace")
	}

	samples := resampleAltitude(trace.Samples, SparklineWidth)

	var sb strings.Builder
	for _, alt := range samples {
		t := (alt - sparklineFloor) / (90 - sparklineFloor)
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}

		blockIdx := int(t * 7.0)
		if blockIdx > 7 {
			blockIdx = 7
		}

		var r, g, b uint8
		if alt < 0 {
			r, g, b = altColorLow[0], altColorLow[1], altColorLow[2]
		} else {
			r, g, b = interpolateAltColor(alt / 90)
		}
		color := fmt.Sprintf("#%02x%02x%02x", r, g, b)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(sparklineBlocks[blockIdx])))
	}

	if cur := trace.CurrentAltitude(now); cur != nil {
		nowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		sb.WriteString(nowStyle.Render(fmt.Sprintf(" now: %.0f°", cur.AltitudeDeg)))
	}

	return sb.String()
}

// sparklineAxis labels the sparkline's start, centre and end.
func sparklineAxis(trace *almanac.AltitudeTrace) string {
	if trace == nil {
		return ""
	}
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	start := trace.WindowStart.Format("15:04")
	end := trace.WindowEnd.Format("15:04")
	mid := "now"
	gap := (SparklineWidth - len(start) - len(end) - len(mid)) / 2
	if gap < 1 {
		gap = 1
	}
	return dimStyle.Render(start + strings.Repeat(" ", gap) + mid + strings.Repeat(" ", gap) + end)
}

// renderShimmerSparkline renders a loading animation sparkline.
func renderShimmerSparkline(msg string, tick int) string {
	var sb strings.Builder

	offset := tick % SparklineWidth
	for i := 0; i < SparklineWidth; i++ {
		dist := (i - offset + SparklineWidth) % SparklineWidth
		gray := 60
		if dist < 8 {
			gray = 60 + dist*8
		}
		color := fmt.Sprintf("#%02x%02x%02x", gray, gray, gray)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("▄"))
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sb.WriteString(" ")
	sb.WriteString(dimStyle.Render(msg))

	return sb.String()
}

// interpolateAltColor returns RGB color for altitude share t in [0, 1].
// Gradient: low (dark blue) → mid (blue) → high (gold).
func interpolateAltColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	mix := func(a, b [3]uint8, s float64) (uint8, uint8, uint8) {
		return uint8(float64(a[0])*(1-s) + float64(b[0])*s),
			uint8(float64(a[1])*(1-s) + float64(b[1])*s),
			uint8(float64(a[2])*(1-s) + float64(b[2])*s)
	}
	if t < 0.5 {
		return mix(altColorLow, altColorMid, t*2)
	}
	return mix(altColorMid, altColorHigh, (t-0.5)*2)
}

// resampleAltitude averages samples into a fixed number of buckets.
func resampleAltitude(samples []almanac.AltitudeSample, width int) []float64 {
	if len(samples) == 0 || width <= 0 {
		return nil
	}

	result := make([]float64, width)
	samplesPerBucket := float64(len(samples)) / float64(width)

	for i := 0; i < width; i++ {
		startIdx := int(float64(i) * samplesPerBucket)
		endIdx := int(float64(i+1) * samplesPerBucket)
		if endIdx > len(samples) {
			endIdx = len(samples)
		}
		if startIdx >= endIdx {
			startIdx = endIdx - 1
		}
		if startIdx < 0 {
			startIdx = 0
		}

		sum := 0.0
		count := 0
		for j := startIdx; j < endIdx; j++ {
			sum += samples[j].AltitudeDeg
			count++
		}
		if count > 0 {
			result[i] = sum / float64(count)
		}
	}

	return result
}

// renderProgressBar draws a fill bar of the given width for p in [0, 1].
func renderProgressBar(p float64, width int, color lipgloss.Color) string {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	filled := int(p*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "[" + lipgloss.NewStyle().Foreground(color).Render(bar) + "]"
}

// formatCountdown formats a duration until an event for display.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
