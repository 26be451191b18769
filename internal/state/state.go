// Package state provides thread-safe state management for the application.
package state

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/litescript/ls-almanac/internal/almanac"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventSunrise     EventType = "SUNRISE"
	EventSunset      EventType = "SUNSET"
	EventMoonrise    EventType = "MOONRISE"
	EventMoonset     EventType = "MOONSET"
	EventPhaseChange EventType = "PHASE_CHANGE"
)

// Event is a change noticed between two successive readings.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current         *almanac.Reading
	lastUpdate      time.Time
	lastError       error
	computeDuration time.Duration

	// History buffers
	sunHistory    []TimeSeries
	moonHistory   []TimeSeries
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   120, // 1 hour at the default refresh
		MaxEvents:       50,
		RefreshInterval: 30 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistoryLen
	if maxHistory <= 0 {
		maxHistory = 120
	}
	return &Manager{
		maxHistoryLen:   maxHistory,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// Update atomically replaces the current reading. A nil reading records only
// the error and duration.
func (m *Manager) Update(r *almanac.Reading, computeDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUpdate = time.Now()
	m.lastError = err
	m.computeDuration = computeDuration

	if r == nil {
		return
	}

	if m.current != nil {
		m.detectEvents(m.current, r)
	}
	m.current = r

	m.sunHistory = appendBounded(m.sunHistory, TimeSeries{r.At, r.Sun.Position.AltitudeDeg}, m.maxHistoryLen)
	m.moonHistory = appendBounded(m.moonHistory, TimeSeries{r.At, r.Moon.Position.AltitudeDeg}, m.maxHistoryLen)
}

func appendBounded(s []TimeSeries, p TimeSeries, max int) []TimeSeries {
	s = append(s, p)
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}

// detectEvents compares successive readings and logs horizon crossings and
// phase changes. Events are stamped with the newer reading's instant.
func (m *Manager) detectEvents(prev, next *almanac.Reading) {
	ts := next.At

	if !prev.Sun.Up && next.Sun.Up {
		m.addEvent(Event{Type: EventSunrise, Timestamp: ts, Detail: fmt.Sprintf("azimuth %.0f° %s", next.Sun.Position.AzimuthDeg, next.Sun.Compass)})
	} else if prev.Sun.Up && !next.Sun.Up {
		m.addEvent(Event{Type: EventSunset, Timestamp: ts, Detail: fmt.Sprintf("azimuth %.0f° %s", next.Sun.Position.AzimuthDeg, next.Sun.Compass)})
	}

	if !prev.Moon.Up && next.Moon.Up {
		m.addEvent(Event{Type: EventMoonrise, Timestamp: ts, Detail: fmt.Sprintf("%s, %.0f%% lit", next.Moon.Illumination.Name, next.Moon.Illumination.Fraction*100)})
	} else if prev.Moon.Up && !next.Moon.Up {
		m.addEvent(Event{Type: EventMoonset, Timestamp: ts, Detail: fmt.Sprintf("%s, %.0f%% lit", next.Moon.Illumination.Name, next.Moon.Illumination.Fraction*100)})
	}

	if prev.Moon.Illumination.Name != next.Moon.Illumination.Name {
		m.addEvent(Event{Type: EventPhaseChange, Timestamp: ts, Detail: fmt.Sprintf("%s -> %s", prev.Moon.Illumination.Name, next.Moon.Illumination.Name)})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Reading         *almanac.Reading
	LastUpdate      time.Time
	LastError       error
	ComputeDuration time.Duration
	SunHistory      []TimeSeries
	MoonHistory     []TimeSeries
	Events          []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sun := make([]TimeSeries, len(m.sunHistory))
	copy(sun, m.sunHistory)
	moon := make([]TimeSeries, len(m.moonHistory))
	copy(moon, m.moonHistory)

	return Snapshot{
		Reading:         m.current,
		LastUpdate:      m.lastUpdate,
		LastError:       m.lastError,
		ComputeDuration: m.computeDuration,
		SunHistory:      sun,
		MoonHistory:     moon,
		Events:          m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true if at least one reading has been stored.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// WriteEvents prints the last n events, oldest first.
func WriteEvents(w io.Writer, events []Event, n int) {
	fmt.Fprintln(w, "Recent events")
	if len(events) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	for _, e := range events {
		fmt.Fprintf(w, "  %s  %-12s %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.Detail)
	}
}
