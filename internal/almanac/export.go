package almanac

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/power"
)

// SnapshotExport is the JSON-serializable representation of a Reading.
type SnapshotExport struct {
	Timestamp time.Time      `json:"timestamp"`
	Location  LocationExport `json:"location"`
	Sun       SunExport      `json:"sun"`
	Moon      MoonExport     `json:"moon"`
	Power     PowerExport    `json:"power"`
	Season    SeasonExport   `json:"season"`
}

// LocationExport is the observer and its time zone.
type LocationExport struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// SunExport is a JSON-friendly sun reading. Unobserved events are omitted.
type SunExport struct {
	Altitude      float64              `json:"altitude"`
	Azimuth       float64              `json:"azimuth"`
	Compass       string               `json:"compass"`
	Up            bool                 `json:"up"`
	PolarDay      bool                 `json:"polar_day"`
	PolarNight    bool                 `json:"polar_night"`
	DayLengthSecs float64              `json:"day_length_seconds"`
	Progress      *float64             `json:"daylight_progress,omitempty"`
	Events        map[string]time.Time `json:"events"`
}

// MoonExport is a JSON-friendly moon reading.
type MoonExport struct {
	Altitude        float64    `json:"altitude"`
	Azimuth         float64    `json:"azimuth"`
	Compass         string     `json:"compass"`
	DistanceKm      float64    `json:"distance_km"`
	Up              bool       `json:"up"`
	Fraction        float64    `json:"fraction"`
	Phase           float64    `json:"phase"`
	PhaseName       string     `json:"phase_name"`
	AgeDays         float64    `json:"age_days"`
	Rise            *time.Time `json:"rise,omitempty"`
	Set             *time.Time `json:"set,omitempty"`
	Transit         *time.Time `json:"transit,omitempty"`
	AlwaysUp        bool       `json:"always_up"`
	AlwaysDown      bool       `json:"always_down"`
	NextRise        *time.Time `json:"next_rise,omitempty"`
	NextSet         *time.Time `json:"next_set,omitempty"`
	NextNew         time.Time  `json:"next_new"`
	NextFull        time.Time  `json:"next_full"`
	SunSeparation   float64    `json:"sun_separation"`
	ArcProgress     float64    `json:"arc_progress"`
	MaxAltitudeDeg  float64    `json:"max_altitude"`
	ParallacticDeg  float64    `json:"parallactic_angle"`
	BrightLimbAngle float64    `json:"bright_limb_angle"`
}

// PowerExport is the solar power estimate for the configured array.
type PowerExport struct {
	RatedWatts   float64 `json:"rated_watts"`
	Irradiance   float64 `json:"irradiance_wm2"`
	PowerWatts   float64 `json:"power_watts"`
	TruePower    float64 `json:"true_power_watts"`
	OptimalTilt  float64 `json:"optimal_tilt"`
	OptimalFace  string  `json:"optimal_facing"`
	PanelAzimuth float64 `json:"optimal_azimuth"`
}

// SeasonExport is the current season and the next equinox or solstice.
type SeasonExport struct {
	Name      string    `json:"name"`
	Progress  float64   `json:"progress"`
	NextEvent string    `json:"next_event"`
	NextAt    time.Time `json:"next_at"`
}

func eventPtr(e astro.EventTime) *time.Time {
	if !e.Observed {
		return nil
	}
	t := e.Time
	return &t
}

// ExportSnapshot converts a Reading to an exportable format.
func ExportSnapshot(r *Reading) *SnapshotExport {
	if r == nil {
		return &SnapshotExport{}
	}

	obs := r.Site.Observer
	export := &SnapshotExport{
		Timestamp: r.At,
		Location: LocationExport{
			Name:      obs.Name,
			Latitude:  obs.LatDeg,
			Longitude: obs.LonDeg,
			Timezone:  r.Site.location().String(),
		},
	}

	sun := r.Sun
	export.Sun = SunExport{
		Altitude:      sun.Position.AltitudeDeg,
		Azimuth:       sun.Position.AzimuthDeg,
		Compass:       sun.Compass,
		Up:            sun.Up,
		PolarDay:      sun.Times.PolarDay,
		PolarNight:    sun.Times.PolarNight,
		DayLengthSecs: sun.Times.DayLength().Seconds(),
		Events:        make(map[string]time.Time),
	}
	if sun.HasDaylight {
		p := sun.Progress
		export.Sun.Progress = &p
	}
	for _, ev := range sun.Times.Events() {
		if ev.Observed {
			export.Sun.Events[strings.ReplaceAll(ev.Name, " ", "_")] = ev.Time
		}
	}

	moon := r.Moon
	export.Moon = MoonExport{
		Altitude:        moon.Position.AltitudeDeg,
		Azimuth:         moon.Position.AzimuthDeg,
		Compass:         moon.Compass,
		DistanceKm:      moon.Position.DistanceKm,
		Up:              moon.Up,
		Fraction:        moon.Illumination.Fraction,
		Phase:           moon.Illumination.Phase,
		PhaseName:       moon.Illumination.Name.String(),
		AgeDays:         moon.Illumination.AgeDays(),
		Rise:            eventPtr(moon.Today.Rise),
		Set:             eventPtr(moon.Today.Set),
		Transit:         eventPtr(moon.Today.Transit),
		AlwaysUp:        moon.Today.AlwaysUp,
		AlwaysDown:      moon.Today.AlwaysDown,
		NextRise:        eventPtr(moon.NextRise),
		NextSet:         eventPtr(moon.NextSet),
		NextNew:         moon.NextNew,
		NextFull:        moon.NextFull,
		SunSeparation:   moon.SunSepDeg,
		ArcProgress:     moon.ArcProgress,
		MaxAltitudeDeg:  moon.Today.MaxAltitudeDeg,
		ParallacticDeg:  moon.Position.ParallacticAngleDeg,
		BrightLimbAngle: moon.Illumination.AngleDeg,
	}

	export.Power = PowerExport{
		RatedWatts:   r.Site.Panels.RatedWatts(),
		Irradiance:   r.Power.IrradianceWm2,
		PowerWatts:   r.Power.PowerW,
		TruePower:    r.Power.TruePowerW,
		OptimalTilt:  r.Tilt.TiltDeg,
		OptimalFace:  r.Tilt.Facing,
		PanelAzimuth: r.Tilt.AzimuthDeg,
	}

	export.Season = SeasonExport{
		Name:      r.Season.Name,
		Progress:  r.Season.Progress,
		NextEvent: r.Season.Next.Name,
		NextAt:    r.Season.Next.Time,
	}

	return export
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SummaryRow represents one row in the summary table.
type SummaryRow struct {
	Body     string
	Altitude float64
	Azimuth  float64
	Compass  string
	Rise     string
	Set      string
	Detail   string
}

// GenerateSummaryRows creates the sun and moon rows of the summary table.
func GenerateSummaryRows(r *Reading) []SummaryRow {
	if r == nil {
		return nil
	}
	const clock = "15:04"

	sunRise, sunSet := r.Sun.Times.Sunrise.Format(clock), r.Sun.Times.Sunset.Format(clock)
	switch {
	case r.Sun.Times.PolarDay:
		sunRise, sunSet = "up", "up"
	case r.Sun.Times.PolarNight:
		sunRise, sunSet = "down", "down"
	}

	moonRise, moonSet := r.Moon.Today.Rise.Format(clock), r.Moon.Today.Set.Format(clock)
	switch {
	case r.Moon.Today.AlwaysUp:
		moonRise, moonSet = "up", "up"
	case r.Moon.Today.AlwaysDown:
		moonRise, moonSet = "down", "down"
	}

	return []SummaryRow{
		{
			Body:     "Sun",
			Altitude: r.Sun.Position.AltitudeDeg,
			Azimuth:  r.Sun.Position.AzimuthDeg,
			Compass:  r.Sun.Compass,
			Rise:     sunRise,
			Set:      sunSet,
			Detail:   "day " + FormatDuration(r.Sun.Times.DayLength()),
		},
		{
			Body:     "Moon",
			Altitude: r.Moon.Position.AltitudeDeg,
			Azimuth:  r.Moon.Position.AzimuthDeg,
			Compass:  r.Moon.Compass,
			Rise:     moonRise,
			Set:      moonSet,
			Detail: fmt.Sprintf("%s %.0f%%",
				r.Moon.Illumination.Name, r.Moon.Illumination.Fraction*100),
		},
	}
}

// WriteSummaryTable writes a text table to the given writer.
func WriteSummaryTable(w io.Writer, r *Reading) {
	if r == nil {
		fmt.Fprintln(w, "No reading")
		return
	}

	fmt.Fprintf(w, "Almanac for %s @ %s\n", siteLabel(r.Site.Observer), r.At.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 72))

	fmt.Fprintf(w, "%-5s %8s %8s %-4s %-6s %-6s %s\n",
		"Body", "Alt", "Az", "Dir", "Rise", "Set", "Detail")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	for _, row := range GenerateSummaryRows(r) {
		fmt.Fprintf(w, "%-5s %7.2f° %7.2f° %-4s %-6s %-6s %s\n",
			row.Body,
			row.Altitude,
			row.Azimuth,
			row.Compass,
			row.Rise,
			row.Set,
			truncateStr(row.Detail, 24),
		)
	}
	fmt.Fprintln(w, strings.Repeat("─", 72))

	fmt.Fprintf(w, "Next new moon:  %s\n", r.Moon.NextNew.In(r.Site.location()).Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Next full moon: %s\n", r.Moon.NextFull.In(r.Site.location()).Format("2006-01-02 15:04"))
	if r.Season.Name != "" {
		fmt.Fprintf(w, "Season:         %s (%.0f%%), %s on %s\n",
			r.Season.Name, r.Season.Progress*100,
			r.Season.Next.Name, r.Season.Next.Time.In(r.Site.location()).Format("2006-01-02"))
	}
	fmt.Fprintf(w, "Solar power:    %s of %s (tilt %.0f° %s)\n",
		power.FormatWatts(r.Power.TruePowerW),
		power.FormatWatts(r.Site.Panels.RatedWatts()),
		r.Tilt.TiltDeg, r.Tilt.Facing)
}

// WriteNowLine writes a single-line status suitable for scripts and status
// bars.
func WriteNowLine(w io.Writer, r *Reading) {
	if r == nil {
		fmt.Fprintln(w, "no reading")
		return
	}
	sunState := "down"
	if r.Sun.Up {
		sunState = "up"
	}
	moonState := "down"
	if r.Moon.Up {
		moonState = "up"
	}
	fmt.Fprintf(w, "%s sun %s %.1f° %s | moon %s %.1f° %s %s %.0f%% | %s\n",
		r.At.Format("15:04"),
		sunState, r.Sun.Position.AltitudeDeg, r.Sun.Compass,
		moonState, r.Moon.Position.AltitudeDeg, r.Moon.Compass,
		r.Moon.Illumination.Name, r.Moon.Illumination.Fraction*100,
		power.FormatWatts(r.Power.TruePowerW),
	)
}

func siteLabel(obs astro.Observer) string {
	coords := FormatCoords(obs.LatDeg, obs.LonDeg)
	if obs.Name == "" {
		return coords
	}
	return obs.Name + " (" + coords + ")"
}

// FormatCoords renders a position as "51.48°N 0.00°W".
func FormatCoords(lat, lon float64) string {
	ns, ew := "N", "E"
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	return fmt.Sprintf("%.2f°%s %.2f°%s", lat, ns, lon, ew)
}

// FormatDuration renders a duration as "11h 42m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %02dm", h, m)
}

// FormatDistance formats a distance in kilometres with a thousands separator.
func FormatDistance(km float64) string {
	n := int64(km + 0.5)
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String() + " km"
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
