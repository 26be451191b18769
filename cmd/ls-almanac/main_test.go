package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-almanac/internal/config"
	"github.com/litescript/ls-almanac/internal/state"
)

func TestWatch_RepeatsUntilCancelled(t *testing.T) {
	mgr := state.NewManager(state.DefaultConfig())
	mgr.SetRefreshInterval(time.Second)

	var calls atomic.Int32
	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	runs, err := watch(ctx, mgr, func() error {
		calls.Add(1)
		return nil
	}, nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, runs, 2, "immediate run plus at least one tick")
	assert.Equal(t, int32(runs), calls.Load())
}

func TestWatch_CountsFailedRuns(t *testing.T) {
	mgr := state.NewManager(state.DefaultConfig())
	mgr.SetRefreshInterval(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	runs, err := watch(ctx, mgr, func() error { return errors.New("disk full") }, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
}

func TestWatch_RejectsBadInterval(t *testing.T) {
	mgr := state.NewManager(state.DefaultConfig())
	mgr.SetRefreshInterval(-time.Second)

	_, err := watch(context.Background(), mgr, func() error { return nil }, nil)
	assert.Error(t, err)
}

func TestBuildSite(t *testing.T) {
	cfg := config.Default()
	cfg.Location = config.LocationConfig{Name: "Quito", Latitude: -0.18, Longitude: -78.47, Timezone: "UTC"}

	site, err := buildSite(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Quito", site.Observer.Name)
	assert.InDelta(t, -78.47, site.Observer.LonDeg, 1e-9)
	assert.Equal(t, "UTC", site.Location.String())

	cfg.Location.Timezone = "Mars/Olympus"
	_, err = buildSite(cfg)
	assert.Error(t, err)
}
