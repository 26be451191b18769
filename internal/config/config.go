// Package config loads ls-almanac settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/logging"
	"github.com/litescript/ls-almanac/internal/power"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "LS_ALMANAC_"

// MinRefresh is the shortest accepted recompute interval.
const MinRefresh = time.Second

// Config aggregates runtime configuration.
type Config struct {
	Location LocationConfig  `yaml:"location"`
	Refresh  time.Duration   `yaml:"refresh"`
	LogLevel string          `yaml:"log_level"`
	LogFile  string          `yaml:"log_file"`
	Panels   power.PanelSpec `yaml:"panels"`
}

// LocationConfig names the observing site.
type LocationConfig struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  string  `yaml:"timezone"` // IANA name; empty means the host's local zone
}

// Default returns the built-in configuration: Greenwich, 30s refresh.
func Default() *Config {
	return &Config{
		Location: LocationConfig{
			Name:      "Greenwich",
			Latitude:  51.4769,
			Longitude: -0.0005,
		},
		Refresh:  30 * time.Second,
		LogLevel: "info",
		Panels:   power.DefaultPanelSpec(),
	}
}

// Load reads path (if non-empty), applies environment overrides and
// validates the result. A missing file is an error only when path was given
// explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// applyEnvOverrides reads LS_ALMANAC_* variables through lookup. Unlike the
// file, a malformed variable is reported rather than ignored.
func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	var errs []error
	parseFloat := func(name string, dst *float64) {
		if v, ok := get(name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}

	parseFloat("LAT", &cfg.Location.Latitude)
	parseFloat("LON", &cfg.Location.Longitude)
	parseFloat("PANEL_WATTS", &cfg.Panels.Watts)

	if v, ok := get("NAME"); ok {
		cfg.Location.Name = v
	}
	if v, ok := get("TIMEZONE"); ok {
		cfg.Location.Timezone = v
	}
	if v, ok := get("REFRESH"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREFRESH: %w", EnvPrefix, err))
		} else {
			cfg.Refresh = d
		}
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := get("LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := get("PANELS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPANELS: %w", EnvPrefix, err))
		} else {
			cfg.Panels.Count = n
		}
	}

	return errors.Join(errs...)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := astro.NewObserver(c.Location.Name, c.Location.Latitude, c.Location.Longitude); err != nil {
		errs = append(errs, fmt.Errorf("location: %w", err))
	}
	if _, err := c.TimeLocation(); err != nil {
		errs = append(errs, err)
	}
	if c.Refresh < MinRefresh {
		errs = append(errs, fmt.Errorf("refresh %v must be at least %v", c.Refresh, MinRefresh))
	}
	if _, err := logging.ParseLevelStrict(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := c.Panels.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("panels: %w", err))
	}

	return errors.Join(errs...)
}

// Observer returns the configured site with its longitude normalized.
func (c *Config) Observer() (astro.Observer, error) {
	return astro.NewObserver(c.Location.Name, c.Location.Latitude, c.Location.Longitude)
}

// TimeLocation resolves the configured timezone. Empty means time.Local.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Location.Timezone, err)
	}
	return loc, nil
}
