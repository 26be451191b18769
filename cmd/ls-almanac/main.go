// Command ls-almanac is a terminal almanac for the Sun and Moon at one site.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/config"
	"github.com/litescript/ls-almanac/internal/logging"
	"github.com/litescript/ls-almanac/internal/poll"
	"github.com/litescript/ls-almanac/internal/state"
	"github.com/litescript/ls-almanac/internal/ui"
	"github.com/litescript/ls-almanac/internal/version"
)

// headlessOptions selects the non-TUI outputs.
type headlessOptions struct {
	summary  bool
	watch    time.Duration
	snapshot string
	now      bool
	events   bool
	beep     bool
}

func (o headlessOptions) any() bool {
	return o.summary || o.snapshot != "" || o.now || o.events
}

const maxRefresh = 5 * time.Minute

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	siteKey := flag.String("site", "", "Preset site ("+strings.Join(almanac.SiteKeys(), ", ")+")")
	lat := flag.Float64("lat", 0, "Observer latitude in degrees, north positive")
	lon := flag.Float64("lon", 0, "Observer longitude in degrees, east positive")
	refresh := flag.Duration("refresh", 0, "Recompute interval (e.g., 30s, 1m)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	atFlag := flag.String("at", "", "Compute for this RFC3339 instant instead of now")
	showVersion := flag.Bool("version", false, "Print version and exit")
	var opts headlessOptions
	flag.BoolVar(&opts.summary, "summary", false, "Print text summary instead of TUI")
	flag.DurationVar(&opts.watch, "watch", 0, "Repeat output at interval (e.g., 30s)")
	flag.StringVar(&opts.snapshot, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.BoolVar(&opts.now, "now", false, "Single-line status mode")
	flag.BoolVar(&opts.events, "events", false, "Show event log")
	flag.BoolVar(&opts.beep, "beep", false, "Beep on sunrise, sunset and moon events (TTY only)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ls-almanac %s\n", version.Version)
		return
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}

	// Flags override file and environment.
	if *siteKey != "" {
		info, ok := almanac.LookupSite(*siteKey)
		if !ok {
			fatal(fmt.Errorf("unknown site %q (known: %s)", *siteKey, strings.Join(almanac.SiteKeys(), ", ")))
		}
		cfg.Location = config.LocationConfig{
			Name:      info.Name,
			Latitude:  info.Latitude,
			Longitude: info.Longitude,
			Timezone:  info.Timezone,
		}
	}
	if set["lat"] || set["lon"] {
		if *siteKey == "" {
			cfg.Location.Name = ""
		}
		if set["lat"] {
			cfg.Location.Latitude = *lat
		}
		if set["lon"] {
			cfg.Location.Longitude = *lon
		}
	}
	if set["refresh"] {
		cfg.Refresh = *refresh
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}
	if cfg.Refresh > maxRefresh {
		cfg.Refresh = maxRefresh
	}
	if err := cfg.Validate(); err != nil {
		fatal(fmt.Errorf("invalid config: %w", err))
	}

	site, err := buildSite(cfg)
	if err != nil {
		fatal(err)
	}

	clock := time.Now
	if *atFlag != "" {
		at, err := time.Parse(time.RFC3339, *atFlag)
		if err != nil {
			fatal(fmt.Errorf("parse -at: %w", err))
		}
		// The clock runs forward from the requested instant.
		started := time.Now()
		clock = func() time.Time { return at.Add(time.Since(started)) }
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = cfg.Refresh
	stateMgr := state.NewManager(stateCfg)

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	// Headless mode: no TUI. A non-terminal stdout gets the summary.
	if !opts.any() && !isTTY {
		opts.summary = true
	}
	if opts.any() {
		runHeadless(ctx, opts, site, clock, stateMgr, isTTY, logger)
		return
	}

	// The TUI owns the screen, so logs go to a file or nowhere.
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatal(fmt.Errorf("open log file: %w", err))
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger = logging.Discard()
	}

	model := ui.New(stateMgr)
	p := tea.NewProgram(model, tea.WithAltScreen())

	poller, err := poll.New(stateMgr.RefreshInterval(), func(ctx context.Context) error {
		return recompute(site, clock, stateMgr, p, logger)
	}, logger)
	if err != nil {
		fatal(err)
	}
	if err := poller.Start(ctx); err != nil {
		fatal(err)
	}
	defer func() {
		poller.Stop()
		runs, failures, _ := poller.Stats()
		logger.Info("stopped after %d recomputes (%d failed)", runs, failures)
	}()

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	logger.Info("ls-almanac %s started for %s", version.Version, site.Observer.Name)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func buildSite(cfg *config.Config) (almanac.Site, error) {
	obs, err := cfg.Observer()
	if err != nil {
		return almanac.Site{}, err
	}
	loc, err := cfg.TimeLocation()
	if err != nil {
		return almanac.Site{}, err
	}
	return almanac.Site{Observer: obs, Location: loc, Panels: cfg.Panels}, nil
}

// recompute builds a reading, records it and pushes it to the TUI.
func recompute(site almanac.Site, clock func() time.Time, stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) error {
	start := time.Now()
	r, err := almanac.Compute(clock(), site)
	dur := time.Since(start)

	if err != nil {
		logger.Error("compute failed: %v", err)
		stateMgr.Update(nil, dur, err)
		p.Send(ui.ErrorMsg{Error: err})
		return err
	}

	logger.Debug("reading computed in %v: sun %.2f°, moon %.2f°",
		dur, r.Sun.Position.AltitudeDeg, r.Moon.Position.AltitudeDeg)

	stateMgr.Update(r, dur, nil)
	p.Send(ui.DataUpdateMsg{Snapshot: stateMgr.Snapshot()})
	return nil
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, opts headlessOptions, site almanac.Site, clock func() time.Time, stateMgr *state.Manager, isTTY bool, logger *logging.Logger) {
	var lastEvent time.Time

	outputOnce := func() error {
		start := time.Now()
		r, err := almanac.Compute(clock(), site)
		if err != nil {
			stateMgr.Update(nil, time.Since(start), err)
			return err
		}
		stateMgr.Update(r, time.Since(start), nil)
		snap := stateMgr.Snapshot()

		if opts.now {
			almanac.WriteNowLine(os.Stdout, snap.Reading)
		}

		if opts.snapshot != "" {
			export := almanac.ExportSnapshot(snap.Reading)
			if opts.snapshot == "-" {
				if err := export.WriteJSON(os.Stdout); err != nil {
					return fmt.Errorf("write JSON to stdout: %w", err)
				}
			} else {
				f, err := os.Create(opts.snapshot)
				if err != nil {
					return fmt.Errorf("create snapshot file: %w", err)
				}
				defer f.Close()
				if err := export.WriteJSON(f); err != nil {
					return fmt.Errorf("write JSON to file: %w", err)
				}
				logger.Debug("snapshot written to %s", opts.snapshot)
			}
		}

		if opts.summary {
			almanac.WriteSummaryTable(os.Stdout, snap.Reading)
		}

		if opts.events {
			fmt.Println()
			state.WriteEvents(os.Stdout, stateMgr.RecentEvents(10), 10)
		}

		if n := len(snap.Events); n > 0 {
			latest := snap.Events[n-1].Timestamp
			if opts.beep && isTTY && latest.After(lastEvent) {
				fmt.Print("\a")
			}
			lastEvent = latest
		}
		return nil
	}

	// Single run
	if opts.watch == 0 {
		if err := outputOnce(); err != nil {
			fatal(err)
		}
		return
	}

	// Watch mode: the poller repeats the output until interrupted.
	stateMgr.SetRefreshInterval(opts.watch)
	first := true
	runs, err := watch(ctx, stateMgr, func() error {
		if !first && !opts.now {
			fmt.Println()
		}
		first = false
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return err
		}
		return nil
	}, logger)
	if err != nil {
		fatal(err)
	}
	logger.Debug("watch stopped after %d outputs", runs)
}

// watch runs output on a poller at the manager's refresh interval until ctx
// is done and returns how many runs completed.
func watch(ctx context.Context, stateMgr *state.Manager, output func() error, logger *logging.Logger) (int, error) {
	poller, err := poll.New(stateMgr.RefreshInterval(), func(context.Context) error {
		return output()
	}, logger)
	if err != nil {
		return 0, err
	}
	if err := poller.Run(ctx); err != nil {
		return 0, err
	}
	runs, _, _ := poller.Stats()
	return runs, nil
}
