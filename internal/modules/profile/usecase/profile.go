package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"wellness/internal/modules/profile/domain"
	profiledto "wellness/internal/modules/profile/dto"
	profilein "wellness/internal/modules/profile/port/in"
	profileout "wellness/internal/modules/profile/port/out"
	"wellness/internal/modules/profile/service"
	apperrors "wellness/internal/platform/errors"
)

type Interactor struct {
	controller *service.SyncController
	store      profileout.ProfileStore
	auth       profileout.AuthSource

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewInteractor(controller *service.SyncController, store profileout.ProfileStore, auth profileout.AuthSource) profilein.Usecase {
	return &Interactor{controller: controller, store: store, auth: auth}
}

func (i *Interactor) Login(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return fmt.Errorf("%w: uid is required", apperrors.ErrInvalidArgument)
	}
	return i.auth.Save(ctx, domain.AuthEvent{UID: uid})
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.auth.Save(ctx, domain.AuthEvent{})
}

func (i *Interactor) Whoami(ctx context.Context) (string, error) {
	ev, err := i.auth.Current(ctx)
	if err != nil {
		return "", err
	}
	return ev.UID, nil
}

// Follow opens the subscription for the current identity before returning,
// then keeps following auth changes in the background until Close.
func (i *Interactor) Follow(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.cancel != nil {
		return nil
	}

	current, err := i.auth.Current(ctx)
	if err != nil {
		return err
	}
	if current.SignedIn() {
		if err := i.controller.StartForUser(ctx, current.UID); err != nil {
			return err
		}
	}

	followCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	events, err := i.auth.Events(followCtx)
	if err != nil {
		cancel()
		return err
	}
	i.cancel = cancel
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		i.controller.Follow(followCtx, events)
	}()
	return nil
}

func (i *Interactor) Close() {
	i.mu.Lock()
	cancel := i.cancel
	i.cancel = nil
	i.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	i.wg.Wait()
	i.controller.Close()
}

func (i *Interactor) Complete(ctx context.Context, input profiledto.CompleteInput) (profiledto.CompleteOutput, error) {
	res, err := i.controller.Complete(ctx, service.CompleteInput{
		RunID:           input.RunID,
		Activity:        input.Activity,
		DurationSeconds: input.DurationSeconds,
	})
	if err != nil {
		return profiledto.CompleteOutput{}, err
	}
	return profiledto.CompleteOutput{
		RecordID:     res.RecordID,
		Profile:      toProfileOutput(res.Profile),
		SessionSaved: res.SessionSaved,
		Duplicate:    res.Duplicate,
		SyncErr:      res.SyncErr,
	}, nil
}

func (i *Interactor) State(_ context.Context) profiledto.StateOutput {
	return toStateOutput(i.controller.State())
}

func (i *Interactor) Watch(ctx context.Context) <-chan profiledto.StateOutput {
	in := i.controller.Watch(ctx)
	out := make(chan profiledto.StateOutput, 1)
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

// GetProfile reads the profile document directly, bypassing the mirror.
func (i *Interactor) GetProfile(ctx context.Context) (profiledto.ProfileOutput, error) {
	uid, err := i.uid(ctx)
	if err != nil {
		return profiledto.ProfileOutput{}, err
	}
	p, err := i.store.GetProfile(ctx, uid)
	if errors.Is(err, apperrors.ErrNotFound) {
		return profiledto.ProfileOutput{}, nil
	}
	if err != nil {
		return profiledto.ProfileOutput{}, err
	}
	return toProfileOutput(p), nil
}

// ListSessions returns the signed-in user's session records, newest first.
func (i *Interactor) ListSessions(ctx context.Context) ([]profiledto.SessionRecordOutput, error) {
	uid, err := i.uid(ctx)
	if err != nil {
		return nil, err
	}
	records, err := i.store.ListSessions(ctx, uid)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(a, b int) bool {
		return records[a].CompletedAt.After(records[b].CompletedAt)
	})
	out := make([]profiledto.SessionRecordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, profiledto.SessionRecordOutput{
			ID:              r.ID,
			Activity:        r.Activity,
			DurationSeconds: r.DurationSeconds,
			CompletedAt:     r.CompletedAt,
		})
	}
	return out, nil
}

func (i *Interactor) uid(ctx context.Context) (string, error) {
	if uid := i.controller.State().UID; uid != "" {
		return uid, nil
	}
	uid, err := i.Whoami(ctx)
	if err != nil {
		return "", err
	}
	if uid == "" {
		return "", apperrors.ErrNotSignedIn
	}
	return uid, nil
}

func toProfileOutput(p domain.Profile) profiledto.ProfileOutput {
	return profiledto.ProfileOutput{
		CurrentStreak:    p.CurrentStreak,
		LongestStreak:    p.LongestStreak,
		LastActivityDate: p.LastActivityDate,
		TotalMinutes:     p.TotalMinutes,
		SessionsToday:    p.SessionsToday,
		ResiliencePoints: p.ResiliencePoints,
	}
}

func toStateOutput(st service.State) profiledto.StateOutput {
	out := profiledto.StateOutput{
		UID:          st.UID,
		Profile:      toProfileOutput(st.Profile),
		Completing:   st.Completing,
		SessionSaved: st.SessionSaved,
	}
	if st.LastErr != nil {
		out.LastError = st.LastErr.Error()
	}
	return out
}
