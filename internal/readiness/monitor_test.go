package readiness

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

var errDown = errors.New("connection refused")

func fastOptions() Options {
	return Options{
		ProbeTimeout:  50 * time.Millisecond,
		ProbeInterval: 5 * time.Millisecond,
		MaxAttempts:   4,
		StartingAfter: 2,
	}
}

func waitTerminal(t *testing.T, m *Monitor) Status {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s := m.Wait(ctx)
	if !s.Terminal() {
		t.Fatalf("monitor did not reach a terminal state, stuck at %q", s.State)
	}
	return s
}

func TestProbeSuccessTransitionsToHealthy(t *testing.T) {
	t.Parallel()

	var probes int32
	m := New(ProberFunc(func(ctx context.Context) error {
		atomic.AddInt32(&probes, 1)
		return nil
	}), fastOptions())
	m.Start()
	defer m.Stop()

	s := waitTerminal(t, m)
	if s.State != StateHealthy {
		t.Fatalf("expected healthy, got %q", s.State)
	}
	if s.Message != msgReady {
		t.Fatalf("unexpected message %q", s.Message)
	}

	// Terminal state must not schedule further probes.
	time.Sleep(30 * time.Millisecond)
	if got := atomic.LoadInt32(&probes); got != 1 {
		t.Fatalf("expected exactly 1 probe after success, got %d", got)
	}
}

func TestExhaustedBudgetTransitionsToUnavailable(t *testing.T) {
	t.Parallel()

	var probes int32
	m := New(ProberFunc(func(ctx context.Context) error {
		atomic.AddInt32(&probes, 1)
		return errDown
	}), fastOptions())
	m.Start()
	defer m.Stop()

	s := waitTerminal(t, m)
	if s.State != StateUnavailable {
		t.Fatalf("expected unavailable, got %q", s.State)
	}
	if s.Attempts != 4 {
		t.Fatalf("expected 4 attempts, got %d", s.Attempts)
	}

	time.Sleep(30 * time.Millisecond)
	if got := atomic.LoadInt32(&probes); got != 4 {
		t.Fatalf("no probes may run after the budget is exhausted, got %d", got)
	}
}

func TestStartingAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	sawStarting := make(chan struct{}, 1)
	var probes int32
	var m *Monitor
	m = New(ProberFunc(func(ctx context.Context) error {
		if atomic.AddInt32(&probes, 1) == 3 {
			// Two failures recorded so far; state must have shifted.
			if m.Status().State == StateStarting {
				select {
				case sawStarting <- struct{}{}:
				default:
				}
			}
		}
		return errDown
	}), fastOptions())
	m.Start()
	defer m.Stop()

	waitTerminal(t, m)
	select {
	case <-sawStarting:
	default:
		t.Fatalf("monitor never reported the starting state after repeated failures")
	}
}

func TestRetryResetsAndReenters(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool
	m := New(ProberFunc(func(ctx context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errDown
	}), fastOptions())
	m.Start()
	defer m.Stop()

	s := waitTerminal(t, m)
	if s.State != StateUnavailable {
		t.Fatalf("expected unavailable before retry, got %q", s.State)
	}

	healthy.Store(true)
	m.Retry()

	if got := m.Status().Attempts; got != 0 {
		t.Fatalf("retry must reset attempts to 0, got %d", got)
	}

	s = waitTerminal(t, m)
	if s.State != StateHealthy {
		t.Fatalf("expected healthy after retry, got %q", s.State)
	}
}

func TestSkipProbeReportsHealthyImmediately(t *testing.T) {
	t.Parallel()

	opts := fastOptions()
	opts.SkipProbe = true
	m := New(ProberFunc(func(ctx context.Context) error {
		t.Error("prober must not be called in skip mode")
		return nil
	}), opts)
	m.Start()
	defer m.Stop()

	if s := m.Status(); s.State != StateHealthy {
		t.Fatalf("expected immediate healthy, got %q", s.State)
	}
}

func TestOptimisticFallbackFlipsStartingToHealthy(t *testing.T) {
	t.Parallel()

	opts := fastOptions()
	opts.MaxAttempts = 1000
	opts.FallbackAfter = 40 * time.Millisecond
	m := New(ProberFunc(func(ctx context.Context) error {
		return errDown
	}), opts)
	m.Start()
	defer m.Stop()

	s := waitTerminal(t, m)
	if s.State != StateHealthy {
		t.Fatalf("expected optimistic healthy via fallback timer, got %q", s.State)
	}
}

func TestStopCancelsPolling(t *testing.T) {
	t.Parallel()

	var probes int32
	m := New(ProberFunc(func(ctx context.Context) error {
		atomic.AddInt32(&probes, 1)
		return errDown
	}), fastOptions())
	m.Start()
	m.Stop()

	before := atomic.LoadInt32(&probes)
	time.Sleep(30 * time.Millisecond)
	if after := atomic.LoadInt32(&probes); after != before {
		t.Fatalf("probes continued after Stop: %d -> %d", before, after)
	}
}
