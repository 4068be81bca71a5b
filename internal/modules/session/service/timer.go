package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"wellness/internal/modules/session/domain"
	"wellness/internal/platform/clock"
	"wellness/internal/platform/logging"
)

// CompletionFunc receives the final SUMMARY state of a run that counted down
// to zero. It runs on its own goroutine after the tick loop has exited.
type CompletionFunc func(final domain.State)

// Timer drives a domain.Machine from a one second ticker. At most one run
// exists at a time; starting a new run stops and joins the previous loop.
type Timer struct {
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger

	// lifeMu serializes Start, Cancel, Reset and Close.
	lifeMu    sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	callbacks sync.WaitGroup

	mu          sync.Mutex
	machine     *domain.Machine
	gen         uint64
	watchers    map[int]chan domain.State
	nextWatcher int
}

func NewTimer(clk clock.Clock, logger *slog.Logger) *Timer {
	return &Timer{
		clock:    clk,
		interval: time.Second,
		logger:   logging.OrDefault(logger),
		machine:  domain.NewMachine(),
		watchers: map[int]chan domain.State{},
	}
}

func (t *Timer) Start(kind domain.ActivityKind, minutes int, runID string, onComplete CompletionFunc) (domain.State, error) {
	if err := domain.ValidateRun(kind, minutes); err != nil {
		return domain.State{}, err
	}
	t.lifeMu.Lock()
	defer t.lifeMu.Unlock()

	t.mu.Lock()
	superseded := t.machine.State().Phase == domain.PhaseActive
	t.gen++
	t.mu.Unlock()
	t.stopLocked()
	if superseded {
		runsTotal.WithLabelValues("superseded").Inc()
	}

	t.mu.Lock()
	if err := t.machine.Start(kind, minutes, runID); err != nil {
		t.mu.Unlock()
		return domain.State{}, err
	}
	gen := t.gen
	started := t.machine.State()
	t.publishLocked()
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	ticker := t.clock.NewTicker(t.interval)
	t.callbacks.Add(1)
	go t.run(ctx, gen, ticker, done, onComplete)

	runsTotal.WithLabelValues("started").Inc()
	t.logger.Info("session started", "run_id", runID, "activity", kind, "minutes", minutes)
	return started, nil
}

func (t *Timer) run(ctx context.Context, gen uint64, ticker clock.Ticker, done chan struct{}, onComplete CompletionFunc) {
	defer t.callbacks.Done()
	final, completed := t.loop(ctx, gen, ticker)
	close(done)
	if !completed {
		return
	}
	runsTotal.WithLabelValues("completed").Inc()
	t.logger.Info("session completed", "run_id", final.RunID, "activity", final.Activity, "seconds", final.TotalDurationSeconds)
	if onComplete != nil {
		onComplete(final)
	}
}

func (t *Timer) loop(ctx context.Context, gen uint64, ticker clock.Ticker) (domain.State, bool) {
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return domain.State{}, false
		case <-ticker.C():
			t.mu.Lock()
			if gen != t.gen {
				t.mu.Unlock()
				return domain.State{}, false
			}
			completed := t.machine.Tick()
			st := t.machine.State()
			t.publishLocked()
			t.mu.Unlock()
			if completed {
				return st, true
			}
		}
	}
}

// Cancel abandons the active run. The completion callback is never invoked
// for a cancelled run.
func (t *Timer) Cancel() error {
	t.lifeMu.Lock()
	defer t.lifeMu.Unlock()

	t.mu.Lock()
	runID := t.machine.State().RunID
	if err := t.machine.Cancel(); err != nil {
		t.mu.Unlock()
		return err
	}
	t.gen++
	t.publishLocked()
	t.mu.Unlock()

	t.stopLocked()
	runsTotal.WithLabelValues("cancelled").Inc()
	t.logger.Info("session cancelled", "run_id", runID)
	return nil
}

// Reset returns to SETUP from any phase, cancelling an active run.
func (t *Timer) Reset() {
	t.lifeMu.Lock()
	defer t.lifeMu.Unlock()

	t.mu.Lock()
	wasActive := t.machine.State().Phase == domain.PhaseActive
	t.machine.Reset()
	t.gen++
	t.publishLocked()
	t.mu.Unlock()

	t.stopLocked()
	if wasActive {
		runsTotal.WithLabelValues("cancelled").Inc()
	}
}

func (t *Timer) stopLocked() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
	t.cancel = nil
	t.done = nil
}

func (t *Timer) Snapshot() domain.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.machine.State()
}

// Watch returns a channel carrying the latest state. Slow readers only see
// the most recent value. The channel is closed when ctx ends.
func (t *Timer) Watch(ctx context.Context) <-chan domain.State {
	ch := make(chan domain.State, 1)
	t.mu.Lock()
	key := t.nextWatcher
	t.nextWatcher++
	t.watchers[key] = ch
	ch <- t.machine.State()
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		t.mu.Lock()
		delete(t.watchers, key)
		close(ch)
		t.mu.Unlock()
	}()
	return ch
}

func (t *Timer) publishLocked() {
	st := t.machine.State()
	for _, ch := range t.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

// Close stops the tick loop and waits for any running completion callback.
// The machine state is left as is.
func (t *Timer) Close() {
	t.lifeMu.Lock()
	t.mu.Lock()
	t.gen++
	t.mu.Unlock()
	t.stopLocked()
	t.lifeMu.Unlock()
	t.callbacks.Wait()
}
