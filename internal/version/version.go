// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Seasons, solar power panel, YAML config with env overrides
// 0.2.0 - Moon view: rise/set search, next new/full moon, altitude sparkline
// 0.1.0 - Initial release: sun engine, TUI dashboard, headless summary and JSON snapshot
