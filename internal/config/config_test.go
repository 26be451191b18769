package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-almanac/internal/astro"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "almanac.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Greenwich", cfg.Location.Name)
	assert.Equal(t, 30*time.Second, cfg.Refresh)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.Panels.Count)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
location:
  name: Austin
  latitude: 30.2672
  longitude: -97.7431
  timezone: UTC
refresh: 1m
log_level: debug
panels:
  count: 12
  watts: 410
  system_losses_pct: 12
  temp_coeff_pct: 0.3
  ambient_c: 30
  performance_ratio: 0.85
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Austin", cfg.Location.Name)
	assert.InDelta(t, 30.2672, cfg.Location.Latitude, 1e-9)
	assert.InDelta(t, -97.7431, cfg.Location.Longitude, 1e-9)
	assert.Equal(t, time.Minute, cfg.Refresh)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 12, cfg.Panels.Count)
	assert.InDelta(t, 410, cfg.Panels.Watts, 1e-9)
	assert.InDelta(t, 0.85, cfg.Panels.PerformanceRatio, 1e-9)

	loc, err := cfg.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "location:\n  latitude: -33.87\n  longitude: 151.21\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, -33.87, cfg.Location.Latitude, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.Refresh)
	assert.Equal(t, 400.0, cfg.Panels.Watts)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "location: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "location:\n  name: File\n  latitude: 10\n  longitude: 20\n")
	t.Setenv("LS_ALMANAC_LAT", "45.5")
	t.Setenv("LS_ALMANAC_NAME", "Env Site")
	t.Setenv("LS_ALMANAC_REFRESH", "5s")
	t.Setenv("LS_ALMANAC_PANELS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Env Site", cfg.Location.Name)
	assert.InDelta(t, 45.5, cfg.Location.Latitude, 1e-9)
	assert.InDelta(t, 20, cfg.Location.Longitude, 1e-9)
	assert.Equal(t, 5*time.Second, cfg.Refresh)
	assert.Equal(t, 3, cfg.Panels.Count)
}

func TestApplyEnvOverrides_Malformed(t *testing.T) {
	env := map[string]string{
		"LS_ALMANAC_LAT":     "north",
		"LS_ALMANAC_REFRESH": "soon",
		"LS_ALMANAC_LON":     "12.5",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	err := applyEnvOverrides(cfg, lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LS_ALMANAC_LAT")
	assert.Contains(t, err.Error(), "LS_ALMANAC_REFRESH")

	// Valid entries still apply.
	assert.InDelta(t, 12.5, cfg.Location.Longitude, 1e-9)
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := Default()
	cfg.Location.Latitude = 123
	cfg.Refresh = 10 * time.Millisecond
	cfg.LogLevel = "chatty"
	cfg.Location.Timezone = "Mars/Olympus_Mons"
	cfg.Panels.PerformanceRatio = 2

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, astro.ErrInvalidArgument))

	msg := err.Error()
	for _, want := range []string{"location", "refresh", "chatty", "Mars/Olympus_Mons", "performance ratio"} {
		assert.Contains(t, msg, want)
	}
}

func TestConfig_Observer(t *testing.T) {
	cfg := Default()
	cfg.Location.Longitude = 200

	obs, err := cfg.Observer()
	require.NoError(t, err)
	assert.InDelta(t, -160, obs.LonDeg, 1e-9)
	assert.Equal(t, "Greenwich", obs.Name)
}
