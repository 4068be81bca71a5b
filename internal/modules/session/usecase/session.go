package usecase

import (
	"context"
	"log/slog"
	"sync"

	profiledto "wellness/internal/modules/profile/dto"
	profilein "wellness/internal/modules/profile/port/in"
	"wellness/internal/modules/session/domain"
	sessiondto "wellness/internal/modules/session/dto"
	sessionin "wellness/internal/modules/session/port/in"
	"wellness/internal/modules/session/service"
	"wellness/internal/platform/id"
	"wellness/internal/platform/logging"
)

type Interactor struct {
	timer   *service.Timer
	idGen   id.Generator
	profile profilein.Usecase
	logger  *slog.Logger

	mu      sync.Mutex
	last    sessiondto.CompletionOutput
	hasLast bool
	// changed is closed and replaced whenever a new completion result lands.
	changed chan struct{}
}

func NewInteractor(timer *service.Timer, idGen id.Generator, profile profilein.Usecase, logger *slog.Logger) sessionin.Usecase {
	return &Interactor{
		timer:   timer,
		idGen:   idGen,
		profile: profile,
		logger:  logging.OrDefault(logger),
		changed: make(chan struct{}),
	}
}

func (i *Interactor) Begin(_ context.Context, input sessiondto.BeginInput) (sessiondto.StateOutput, error) {
	kind, err := domain.ParseActivityKind(input.Kind)
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	st, err := i.timer.Start(kind, input.Minutes, i.idGen.New(), i.complete)
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	return toStateOutput(st), nil
}

// complete is the timer's completion callback. The profile sync runs
// detached from any caller; its outcome is kept for LastResult.
func (i *Interactor) complete(final domain.State) {
	result := sessiondto.CompletionOutput{
		RunID:           final.RunID,
		Activity:        string(final.Activity),
		DurationSeconds: final.TotalDurationSeconds,
	}
	out, err := i.profile.Complete(context.Background(), profiledto.CompleteInput{
		RunID:           final.RunID,
		Activity:        string(final.Activity),
		DurationSeconds: final.TotalDurationSeconds,
	})
	switch {
	case err != nil:
		i.logger.Warn("session completed without profile update", "run_id", final.RunID, "error", err)
		result.SyncError = err.Error()
	default:
		result.Saved = out.SessionSaved
		result.Duplicate = out.Duplicate
		result.Profile = out.Profile
		if out.SyncErr != nil {
			result.SyncError = out.SyncErr.Error()
		}
	}

	i.mu.Lock()
	i.last = result
	i.hasLast = true
	close(i.changed)
	i.changed = make(chan struct{})
	i.mu.Unlock()
}

func (i *Interactor) Cancel(_ context.Context) error {
	return i.timer.Cancel()
}

func (i *Interactor) Reset(_ context.Context) error {
	i.timer.Reset()
	return nil
}

func (i *Interactor) State(_ context.Context) sessiondto.StateOutput {
	return toStateOutput(i.timer.Snapshot())
}

func (i *Interactor) Watch(ctx context.Context) <-chan sessiondto.StateOutput {
	in := i.timer.Watch(ctx)
	out := make(chan sessiondto.StateOutput, 1)
	go func() {
		defer close(out)
		for st := range in {
			select {
			case <-out:
			default:
			}
			out <- toStateOutput(st)
		}
	}()
	return out
}

func (i *Interactor) LastResult(_ context.Context) (sessiondto.CompletionOutput, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.last, i.hasLast
}

// AwaitResult blocks until the completion result of runID is available.
func (i *Interactor) AwaitResult(ctx context.Context, runID string) (sessiondto.CompletionOutput, error) {
	for {
		i.mu.Lock()
		if i.hasLast && i.last.RunID == runID {
			result := i.last
			i.mu.Unlock()
			return result, nil
		}
		changed := i.changed
		i.mu.Unlock()

		select {
		case <-ctx.Done():
			return sessiondto.CompletionOutput{}, ctx.Err()
		case <-changed:
		}
	}
}

// Close stops the tick loop and waits for a pending profile sync.
func (i *Interactor) Close() {
	i.timer.Close()
}

func toStateOutput(st domain.State) sessiondto.StateOutput {
	return sessiondto.StateOutput{
		Phase:                string(st.Phase),
		Activity:             string(st.Activity),
		TimeLeftSeconds:      st.TimeLeftSeconds,
		TotalDurationSeconds: st.TotalDurationSeconds,
		BreathingPhase:       st.BreathingPhase,
		RunID:                st.RunID,
	}
}
