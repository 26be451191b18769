// Package poll runs a recompute function on a fixed interval with an
// explicit stop handle.
package poll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/litescript/ls-almanac/internal/logging"
)

// Task is one unit of periodic work. The context is cancelled when the
// poller stops.
type Task func(ctx context.Context) error

// Poller runs a Task immediately and then every interval. Runs of the task
// never overlap.
type Poller struct {
	interval time.Duration
	task     Task
	log      *logging.Logger

	mu        sync.Mutex
	scheduler *gocron.Scheduler
	cancel    context.CancelFunc
	runs      int
	failures  int
	lastErr   error
}

// New creates a poller. The logger may be nil.
func New(interval time.Duration, task Task, log *logging.Logger) (*Poller, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval %v must be positive", interval)
	}
	if task == nil {
		return nil, errors.New("poll task is nil")
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Poller{interval: interval, task: task, log: log.With("component", "poll")}, nil
}

// Start schedules the task. Calling Start on a running poller is an error.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.scheduler != nil {
		return errors.New("poller already running")
	}

	runCtx, cancel := context.WithCancel(ctx)

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if _, err := s.Every(p.interval).StartImmediately().Do(p.run, runCtx); err != nil {
		cancel()
		return fmt.Errorf("schedule task: %w", err)
	}

	s.StartAsync()
	p.scheduler = s
	p.cancel = cancel
	p.log.Debug("started, interval %v", p.interval)
	return nil
}

// Run starts the poller, blocks until ctx is done and then stops it.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	p.Stop()
	return nil
}

// Stop cancels the task context and halts the schedule. It is safe to call
// more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	s, cancel := p.scheduler, p.cancel
	p.scheduler, p.cancel = nil, nil
	p.mu.Unlock()

	if s == nil {
		return
	}
	cancel()
	s.Stop()
	p.log.Debug("stopped")
}

// Running reports whether Start has been called without a matching Stop.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scheduler != nil
}

// Stats returns how many runs completed, how many failed, and the most
// recent error (nil after a successful run).
func (p *Poller) Stats() (runs, failures int, lastErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runs, p.failures, p.lastErr
}

func (p *Poller) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	err := p.task(ctx)

	p.mu.Lock()
	p.runs++
	p.lastErr = err
	if err != nil {
		p.failures++
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("task failed: %v", err)
		return
	}
	p.log.Debug("task completed in %v", time.Since(start).Round(time.Microsecond))
}
