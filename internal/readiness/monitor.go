// Package readiness tracks whether the backend API is reachable, so the
// frontend can gate search submission behind a human-readable status banner.
package readiness

import (
	"context"
	"sync"
	"time"
)

// State is the monitor's classification of the backend.
type State string

const (
	// StateChecking means probing is in progress with no verdict yet.
	StateChecking State = "checking"
	// StateHealthy means a probe succeeded (or probing was skipped);
	// polling has stopped.
	StateHealthy State = "healthy"
	// StateStarting means several consecutive probes failed, which usually
	// indicates a cold-starting backend rather than a transient blip.
	StateStarting State = "starting"
	// StateUnavailable means the retry budget is exhausted; polling has
	// stopped until a manual retry.
	StateUnavailable State = "unavailable"
)

const (
	msgChecking    = "checking backend status..."
	msgReady       = "ready"
	msgStarting    = "backend is starting up, this may take a minute..."
	msgUnavailable = "backend unavailable, please retry later"
)

// Prober tests backend reachability with a single lightweight request.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context) error

// Probe calls the wrapped function.
func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }

// Options tunes the monitor. Zero values take the production defaults.
type Options struct {
	// ProbeTimeout bounds each probe request. Default 10s.
	ProbeTimeout time.Duration
	// ProbeInterval is the delay between failed probes. Default 5s.
	ProbeInterval time.Duration
	// MaxAttempts is the retry budget before the monitor gives up.
	// Default 40.
	MaxAttempts int
	// StartingAfter is the number of consecutive failures before the
	// monitor reports "starting up" instead of "checking", so a single
	// transient blip does not flap the banner. Default 2.
	StartingAfter int
	// FallbackAfter optimistically flips a starting backend to healthy
	// after a fixed wall-clock duration even without a confirmed probe.
	// This trades correctness for availability when probes are
	// unreliable. Zero disables the fallback.
	FallbackAfter time.Duration
	// SkipProbe reports healthy immediately without any network traffic,
	// for local trusted deployments.
	SkipProbe bool
}

func (o Options) withDefaults() Options {
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = 10 * time.Second
	}
	if o.ProbeInterval <= 0 {
		o.ProbeInterval = 5 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 40
	}
	if o.StartingAfter <= 0 {
		o.StartingAfter = 2
	}
	return o
}

// Status is a snapshot of the monitor for display.
type Status struct {
	State    State
	Attempts int
	Message  string
}

// Terminal reports whether polling has stopped for this state.
func (s Status) Terminal() bool {
	return s.State == StateHealthy || s.State == StateUnavailable
}

// Monitor polls the backend until it is healthy or the retry budget runs
// out. All scheduled work is cancelled on Stop or on reaching a terminal
// state; probe failures are never surfaced except through the status.
type Monitor struct {
	prober Prober
	opts   Options

	mu       sync.Mutex
	state    State
	message  string
	attempts int

	cancel  context.CancelFunc
	retryCh chan struct{}
	done    chan struct{}
}

// New builds a monitor; call Start to begin probing.
func New(prober Prober, opts Options) *Monitor {
	return &Monitor{
		prober:  prober,
		opts:    opts.withDefaults(),
		state:   StateChecking,
		message: msgChecking,
		retryCh: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start launches the polling loop. The first probe is issued immediately.
func (m *Monitor) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	if m.opts.SkipProbe {
		m.set(StateHealthy, msgReady)
		close(m.done)
		return
	}

	go m.run(ctx)
}

// Status returns the current snapshot.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{State: m.state, Attempts: m.attempts, Message: m.message}
}

// Retry resets the attempt counter and restarts polling from checking.
func (m *Monitor) Retry() {
	m.mu.Lock()
	m.attempts = 0
	m.state = StateChecking
	m.message = msgChecking
	m.mu.Unlock()

	select {
	case m.retryCh <- struct{}{}:
	default:
	}
}

// Stop cancels all pending probes and timers. The monitor must not be
// reused afterwards.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-m.done
}

// Wait blocks until the monitor reaches a terminal state or the context is
// cancelled, and returns the final status.
func (m *Monitor) Wait(ctx context.Context) Status {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if s := m.Status(); s.Terminal() {
			return s
		}
		select {
		case <-ctx.Done():
			return m.Status()
		case <-ticker.C:
		}
	}
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	for {
		m.cycle(ctx)
		if ctx.Err() != nil {
			return
		}

		// Terminal state reached; park until a manual retry.
		select {
		case <-ctx.Done():
			return
		case <-m.retryCh:
		}
	}
}

// cycle probes until healthy, the budget runs out, or ctx is cancelled.
func (m *Monitor) cycle(ctx context.Context) {
	var fallback <-chan time.Time
	if m.opts.FallbackAfter > 0 {
		timer := time.NewTimer(m.opts.FallbackAfter)
		defer timer.Stop()
		fallback = timer.C
	}

	for {
		probeCtx, cancel := context.WithTimeout(ctx, m.opts.ProbeTimeout)
		err := m.prober.Probe(probeCtx)
		cancel()

		if ctx.Err() != nil {
			return
		}
		if err == nil {
			m.set(StateHealthy, msgReady)
			return
		}

		// Errors and timeouts count identically as a failed probe.
		if m.fail() >= m.opts.MaxAttempts {
			m.set(StateUnavailable, msgUnavailable)
			return
		}

		delay := time.NewTimer(m.opts.ProbeInterval)
		select {
		case <-ctx.Done():
			delay.Stop()
			return
		case <-fallback:
			delay.Stop()
			if m.optimisticHealthy() {
				return
			}
			fallback = nil
		case <-delay.C:
		}
	}
}

// fail records a failed probe and returns the attempt count. Past
// StartingAfter consecutive failures the state shifts to starting.
func (m *Monitor) fail() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.attempts > m.opts.StartingAfter && m.state != StateStarting {
		m.state = StateStarting
		m.message = msgStarting
	}
	return m.attempts
}

// optimisticHealthy flips a starting backend to healthy without a confirmed
// probe. Only the starting state qualifies.
func (m *Monitor) optimisticHealthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateStarting {
		return false
	}
	m.state = StateHealthy
	m.message = msgReady
	return true
}

func (m *Monitor) set(state State, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.message = message
}
