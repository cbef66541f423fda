// Package driver runs the simulation tick loop on its own goroutine.
package driver

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultMaxElapsed caps the wall time a single tick may account for, so a
// stalled process does not fast-forward the table.
const DefaultMaxElapsed = 100 * time.Millisecond

// Ticker is the simulation the driver advances.
type Ticker interface {
	Tick(elapsed time.Duration, maxSubsteps int)
	TargetTimeRatio() float64
}

// DrawFunc draws one frame after a tick. It runs on the driver goroutine
// and must not call Driver.Stop.
type DrawFunc func() error

// Options configures a Driver.
type Options struct {
	Interval    time.Duration // Target loop period
	MaxSubsteps int
	MaxElapsed  time.Duration
	Logger      *log.Logger
	// Clock measures elapsed time between iterations. Defaults to time.Now.
	Clock func() time.Time
}

// Driver repeatedly ticks a simulation and draws it.
type Driver struct {
	sim  Ticker
	draw DrawFunc
	opts Options
	log  *log.Logger

	mu      sync.Mutex // Serializes Start and Stop
	running atomic.Bool
	stop    chan struct{}
	wg      sync.WaitGroup

	fps   FrameRate
	ticks atomic.Uint64
}

// New creates a stopped driver.
func New(sim Ticker, draw DrawFunc, opts Options) *Driver {
	if opts.Interval <= 0 {
		opts.Interval = time.Second / 60
	}
	if opts.MaxSubsteps <= 0 {
		opts.MaxSubsteps = 4
	}
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = DefaultMaxElapsed
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if draw == nil {
		draw = func() error { return nil }
	}
	return &Driver{sim: sim, draw: draw, opts: opts, log: logger}
}

// Start launches the loop. Starting a running driver is a no-op.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return
	}
	d.stop = make(chan struct{})
	d.running.Store(true)
	d.wg.Add(1)
	go d.loop(d.stop)
	d.log.Debug("tick driver started", "interval", d.opts.Interval)
}

// Stop ends the loop and waits for it, so no tick begins after Stop
// returns. Stopping a stopped driver is a no-op.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running.Load() {
		return
	}
	close(d.stop)
	d.wg.Wait()
	d.running.Store(false)
	d.log.Debug("tick driver stopped", "ticks", d.ticks.Load())
}

// Running reports whether the loop is active.
func (d *Driver) Running() bool {
	return d.running.Load()
}

// ResetFrameRate discards the frame rate estimate.
func (d *Driver) ResetFrameRate() {
	d.fps.Reset()
}

// AverageFPS returns the estimated ticks per second.
func (d *Driver) AverageFPS() float64 {
	return d.fps.Average()
}

// Ticks returns the number of loop iterations run so far.
func (d *Driver) Ticks() uint64 {
	return d.ticks.Load()
}

func (d *Driver) loop(stop <-chan struct{}) {
	defer d.wg.Done()

	timer := time.NewTimer(d.opts.Interval)
	timer.Stop()
	defer timer.Stop()

	last := d.opts.Clock()
	deadline := time.Now()
	first := true

	for {
		now := d.opts.Clock()
		period := now.Sub(last)
		last = now

		elapsed := min(period, d.opts.MaxElapsed)
		if elapsed > 0 {
			sim := time.Duration(float64(elapsed) * d.sim.TargetTimeRatio())
			d.sim.Tick(sim, d.opts.MaxSubsteps)
		}
		if !first {
			d.fps.Observe(period)
		}
		first = false
		d.ticks.Add(1)
		d.safeDraw()

		// Fixed deadlines keep the average period on target; fall back to
		// "now" when far behind rather than bursting to catch up.
		deadline = deadline.Add(d.opts.Interval)
		wait := time.Until(deadline)
		if wait < -2*d.opts.Interval {
			deadline = time.Now()
			wait = 0
		}
		timer.Reset(max(wait, 0))

		select {
		case <-stop:
			return
		case <-timer.C:
		}
	}
}

func (d *Driver) safeDraw() {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("draw panicked", "panic", r)
		}
	}()
	if err := d.draw(); err != nil {
		d.log.Warn("draw failed", "error", err)
	}
}
