package almanac

import (
	"sort"
	"strings"

	"github.com/litescript/ls-almanac/internal/astro"
)

// SiteInfo is a named preset location.
type SiteInfo struct {
	Key       string
	Name      string
	Latitude  float64
	Longitude float64
	Timezone  string
}

// KnownSites maps preset keys to their locations.
var KnownSites = map[string]SiteInfo{
	"greenwich": {Key: "greenwich", Name: "Greenwich", Latitude: 51.4769, Longitude: -0.0005, Timezone: "Europe/London"},
	"austin":    {Key: "austin", Name: "Austin", Latitude: 30.2672, Longitude: -97.7431, Timezone: "America/Chicago"},
	"goldstone": {Key: "goldstone", Name: "Goldstone", Latitude: 35.4267, Longitude: -116.8900, Timezone: "America/Los_Angeles"},
	"canberra":  {Key: "canberra", Name: "Canberra", Latitude: -35.4014, Longitude: 148.9817, Timezone: "Australia/Sydney"},
	"madrid":    {Key: "madrid", Name: "Madrid", Latitude: 40.4314, Longitude: -4.2481, Timezone: "Europe/Madrid"},
	"tromso":    {Key: "tromso", Name: "Tromsø", Latitude: 69.6492, Longitude: 18.9553, Timezone: "Europe/Oslo"},
	"quito":     {Key: "quito", Name: "Quito", Latitude: -0.1807, Longitude: -78.4678, Timezone: "America/Guayaquil"},
}

// LookupSite finds a preset by key, ignoring case.
func LookupSite(key string) (SiteInfo, bool) {
	info, ok := KnownSites[strings.ToLower(strings.TrimSpace(key))]
	return info, ok
}

// SiteKeys returns the preset keys in sorted order.
func SiteKeys() []string {
	keys := make([]string, 0, len(KnownSites))
	for k := range KnownSites {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Observer returns the preset as an astro.Observer.
func (s SiteInfo) Observer() astro.Observer {
	return astro.Observer{
		LatDeg: s.Latitude,
		LonDeg: s.Longitude,
		Name:   s.Name,
	}
}
