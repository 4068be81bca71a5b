package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wellness/internal/modules/profile/domain"
	profileout "wellness/internal/modules/profile/port/out"
	"wellness/internal/platform/clock"
	apperrors "wellness/internal/platform/errors"
	"wellness/internal/platform/logging"
	"wellness/internal/platform/tx"
)

// State is the locally published, eventually consistent view of the
// signed-in user's profile.
type State struct {
	UID          string
	Profile      domain.Profile
	Completing   bool
	SessionSaved bool
	LastErr      error
}

type CompleteInput struct {
	RunID           string
	Activity        string
	DurationSeconds int
}

type CompleteResult struct {
	RecordID     string
	Profile      domain.Profile
	SessionSaved bool
	Duplicate    bool
	SyncErr      error
}

// SyncController mirrors the remote profile of the signed-in user and applies
// session completions to it with a read-modify-write.
//
// The remote update takes no lock: two devices finishing a session within the
// same instant race and the last writer wins.
type SyncController struct {
	clock    clock.Clock
	location *time.Location
	store    profileout.ProfileStore
	logger   *slog.Logger
	critical *tx.Shielded

	// lifeMu serializes subscription start/stop.
	lifeMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	mu          sync.Mutex
	state       State
	gen         uint64
	watchers    map[int]chan State
	nextWatcher int
}

func NewSyncController(clk clock.Clock, location *time.Location, store profileout.ProfileStore, logger *slog.Logger) *SyncController {
	if location == nil {
		location = time.UTC
	}
	return &SyncController{
		clock:    clk,
		location: location,
		store:    store,
		logger:   logging.OrDefault(logger),
		critical: &tx.Shielded{},
		watchers: map[int]chan State{},
	}
}

// StartForUser opens the profile subscription for uid. Any subscription for a
// previous identity is cancelled and fully drained first.
func (c *SyncController) StartForUser(ctx context.Context, uid string) error {
	if uid == "" {
		return fmt.Errorf("%w: uid is required", apperrors.ErrInvalidArgument)
	}
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	if c.done != nil && c.State().UID == uid {
		return nil
	}
	c.stopLocked()

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = State{UID: uid}
	c.publishLocked()
	c.mu.Unlock()

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	snapshots, err := c.store.WatchProfile(subCtx, uid)
	if err != nil {
		cancel()
		err = wrapRemote("subscribe profile", err)
		c.mu.Lock()
		c.state.LastErr = err
		c.publishLocked()
		c.mu.Unlock()
		return err
	}

	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	activeSubscriptions.Inc()
	c.logger.Info("profile subscription started", "uid", uid)

	go func() {
		defer close(done)
		for snap := range snapshots {
			c.mirror(gen, snap)
		}
	}()
	return nil
}

// Stop cancels the running subscription, waits for it to exit and resets the
// published state to the zero profile.
func (c *SyncController) Stop() {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()
	c.stopLocked()

	c.mu.Lock()
	c.gen++
	c.state = State{}
	c.publishLocked()
	c.mu.Unlock()
}

func (c *SyncController) stopLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel = nil
	c.done = nil
	activeSubscriptions.Dec()
	c.logger.Info("profile subscription stopped")
}

func (c *SyncController) mirror(gen uint64, snap domain.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if snap.Exists {
		c.state.Profile = snap.Profile
	} else {
		c.state.Profile = domain.Profile{}
	}
	snapshotsTotal.Inc()
	c.publishLocked()
}

// Follow drives the subscription lifecycle from auth events until ctx ends or
// the event stream closes. Either way the subscription is stopped on return.
func (c *SyncController) Follow(ctx context.Context, events <-chan domain.AuthEvent) {
	defer c.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !ev.SignedIn() {
				c.Stop()
				continue
			}
			if err := c.StartForUser(ctx, ev.UID); err != nil {
				c.logger.Error("profile subscription failed", "uid", ev.UID, "error", err)
			}
		}
	}
}

// Complete appends the session record and applies the session to the
// freshly read profile. Once begun the sequence ignores ctx cancellation.
// Remote failures are reported in the result, never as the returned error.
func (c *SyncController) Complete(ctx context.Context, input CompleteInput) (CompleteResult, error) {
	if input.DurationSeconds <= 0 {
		return CompleteResult{}, fmt.Errorf("%w: duration must be positive, got %ds", apperrors.ErrInvalidArgument, input.DurationSeconds)
	}

	c.mu.Lock()
	uid, gen := c.state.UID, c.gen
	if uid == "" {
		c.mu.Unlock()
		return CompleteResult{}, apperrors.ErrNotSignedIn
	}
	c.state.Completing = true
	c.state.SessionSaved = false
	c.state.LastErr = nil
	c.publishLocked()
	c.mu.Unlock()

	var result CompleteResult
	_ = c.critical.Within(ctx, func(ctx context.Context) error {
		result = c.sync(ctx, uid, input)
		return result.SyncErr
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.logger.Warn("identity changed during completion, result not published", "uid", uid, "run_id", input.RunID)
		return result, nil
	}
	c.state.Completing = false
	c.state.SessionSaved = result.SessionSaved
	c.state.LastErr = result.SyncErr
	if result.SyncErr == nil {
		c.state.Profile = result.Profile
	} else {
		result.Profile = c.state.Profile
	}
	c.publishLocked()
	return result, nil
}

func (c *SyncController) sync(ctx context.Context, uid string, input CompleteInput) CompleteResult {
	ctx, span := tracer.Start(ctx, "SyncController.Complete",
		trace.WithAttributes(
			attribute.String("session.activity", input.Activity),
			attribute.Int("session.duration_seconds", input.DurationSeconds),
		),
	)
	defer span.End()
	started := time.Now()
	defer func() { syncDuration.Observe(time.Since(started).Seconds()) }()

	logger := c.logger.With("uid", uid, "run_id", input.RunID)
	result := CompleteResult{}

	record := domain.SessionRecord{
		ID:              input.RunID,
		UID:             uid,
		Activity:        input.Activity,
		DurationSeconds: input.DurationSeconds,
		CompletedAt:     c.clock.Now(),
	}
	recordID, err := c.store.AppendSession(ctx, record)
	if err != nil {
		recordAppendFailures.Inc()
		span.AddEvent("session record append failed")
		logger.Warn("session record append failed", "error", err)
	}
	result.RecordID = recordID

	current, err := c.store.GetProfile(ctx, uid)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return c.fail(span, logger, result, wrapRemote("read profile", err))
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		current = domain.Profile{}
	}

	if input.RunID != "" && current.LastSessionID == input.RunID {
		completionsTotal.WithLabelValues("duplicate").Inc()
		logger.Info("session already applied to profile")
		result.Profile = current
		result.SessionSaved = true
		result.Duplicate = true
		return result
	}

	today, yesterday := clock.DayPair(c.clock.Now(), c.location)
	next := domain.Accrue(current, input.DurationSeconds/60, today, yesterday)
	next.LastSessionID = input.RunID

	if err := c.store.SetProfile(ctx, uid, next); err != nil {
		return c.fail(span, logger, result, wrapRemote("write profile", err))
	}

	completionsTotal.WithLabelValues("saved").Inc()
	logger.Info("profile updated",
		"streak", next.CurrentStreak,
		"sessions_today", next.SessionsToday,
		"points", next.ResiliencePoints,
	)
	result.Profile = next
	result.SessionSaved = true
	return result
}

func (c *SyncController) fail(span trace.Span, logger *slog.Logger, result CompleteResult, err error) CompleteResult {
	completionsTotal.WithLabelValues("failed").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger.Error("profile sync failed", "error", err)
	result.SessionSaved = false
	result.SyncErr = err
	return result
}

func (c *SyncController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Watch returns a channel carrying the latest published state. Slow readers
// only ever see the most recent value. The channel is closed when ctx ends.
func (c *SyncController) Watch(ctx context.Context) <-chan State {
	ch := make(chan State, 1)
	c.mu.Lock()
	key := c.nextWatcher
	c.nextWatcher++
	c.watchers[key] = ch
	ch <- c.state
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.watchers, key)
		close(ch)
		c.mu.Unlock()
	}()
	return ch
}

func (c *SyncController) publishLocked() {
	for _, ch := range c.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- c.state
	}
}

// Close lets in-flight completions finish, then stops the subscription.
func (c *SyncController) Close() {
	c.critical.Wait()
	c.Stop()
}

func wrapRemote(op string, err error) error {
	if errors.Is(err, apperrors.ErrRemoteUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, apperrors.ErrRemoteUnavailable, err)
}
