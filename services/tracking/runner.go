package tracking

import (
	"sync"
	"time"
)

const (
	DefaultMinDelay = 2 * time.Second
	DefaultMaxDelay = 6 * time.Second
)

// RunnerConfig wires a Runner to its scheduler.
type RunnerConfig struct {
	Clock Clock
	// Rand draws the delay between ticks, uniform in [MinDelay, MaxDelay).
	Rand     Rand
	MinDelay time.Duration
	MaxDelay time.Duration
	// OnArrive runs once, outside the runner's lock, when the maid arrives.
	OnArrive func(Snapshot)
}

// Runner drives a Simulation on irregular timer ticks until the maid
// arrives or the runner is disposed. A callback that fires after Dispose
// does nothing.
type Runner struct {
	mu       sync.Mutex
	sim      *Simulation
	cfg      RunnerConfig
	timer    Timer
	started  bool
	disposed bool
}

func NewRunner(sim *Simulation, cfg RunnerConfig) *Runner {
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = DefaultMinDelay
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	return &Runner{sim: sim, cfg: cfg}
}

// Start schedules the first tick. Calling it again is a no-op.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.disposed {
		return
	}
	r.started = true
	r.scheduleLocked()
}

func (r *Runner) nextDelay() time.Duration {
	span := r.cfg.MaxDelay - r.cfg.MinDelay
	if span <= 0 || r.cfg.Rand == nil {
		return r.cfg.MinDelay
	}
	return r.cfg.MinDelay + time.Duration(r.cfg.Rand.Float64()*float64(span))
}

func (r *Runner) scheduleLocked() {
	if r.sim.HasArrived() {
		r.timer = nil
		return
	}
	r.timer = r.cfg.Clock.AfterFunc(r.nextDelay(), r.fire)
}

func (r *Runner) fire() {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	outcome := r.sim.Tick()
	var arrived *Snapshot
	if outcome == TickArrived {
		snap := r.sim.Snapshot(r.cfg.Clock.Now())
		arrived = &snap
		r.timer = nil
	} else {
		r.scheduleLocked()
	}
	onArrive := r.cfg.OnArrive
	r.mu.Unlock()

	if arrived != nil && onArrive != nil {
		onArrive(*arrived)
	}
}

// Dispose cancels any pending tick. It is safe to call more than once.
func (r *Runner) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return
	}
	r.disposed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// Snapshot returns the current journey view.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sim.Snapshot(r.cfg.Clock.Now())
}

// Active reports whether more ticks are pending.
func (r *Runner) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.disposed && r.timer != nil
}
