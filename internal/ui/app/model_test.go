package app

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	profiledto "wellness/internal/modules/profile/dto"
	sessiondto "wellness/internal/modules/session/dto"
)

type fakeSession struct {
	mu        sync.Mutex
	began     []string
	cancelled int
	resets    int
	ch        chan sessiondto.StateOutput
}

func (f *fakeSession) Begin(_ context.Context, kind string, minutes int) (sessiondto.StateOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.began = append(f.began, kind)
	return sessiondto.StateOutput{Phase: "ACTIVE", Activity: kind, TimeLeftSeconds: minutes * 60, TotalDurationSeconds: minutes * 60}, nil
}
func (f *fakeSession) Cancel(context.Context) error { f.cancelled++; return nil }
func (f *fakeSession) Reset(context.Context) error  { f.resets++; return nil }
func (f *fakeSession) State(context.Context) sessiondto.StateOutput {
	return sessiondto.StateOutput{Phase: "SETUP"}
}
func (f *fakeSession) Watch(context.Context) <-chan sessiondto.StateOutput { return f.ch }
func (f *fakeSession) AwaitResult(context.Context, string) (sessiondto.CompletionOutput, error) {
	return sessiondto.CompletionOutput{}, nil
}

type fakeProfile struct {
	logins []string
	ch     chan profiledto.StateOutput
}

func (f *fakeProfile) Login(_ context.Context, uid string) error {
	f.logins = append(f.logins, uid)
	return nil
}
func (f *fakeProfile) Logout(context.Context) error { return nil }
func (f *fakeProfile) State(context.Context) profiledto.StateOutput {
	return profiledto.StateOutput{}
}
func (f *fakeProfile) Watch(context.Context) <-chan profiledto.StateOutput { return f.ch }

func newTestModel() (Model, *fakeSession, *fakeProfile) {
	s := &fakeSession{ch: make(chan sessiondto.StateOutput)}
	p := &fakeProfile{ch: make(chan profiledto.StateOutput)}
	m := NewModel(context.Background(), s, p, []string{"breathing", "meditation", "body_scan", "gratitude"})
	m.width, m.height = 100, 30
	return m, s, p
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

func TestSetupSelectsActivityAndBegins(t *testing.T) {
	t.Parallel()
	m, s, _ := newTestModel()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.selected != 1 || m.minutes != defaultMinutes+1 {
		t.Fatalf("unexpected selection %d/%d", m.selected, m.minutes)
	}
	if !strings.Contains(m.View(), "meditation") {
		t.Fatalf("setup view must list activities")
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter must begin a session")
	}
	if done, ok := cmd().(actionDoneMsg); !ok || done.err != nil {
		t.Fatalf("unexpected begin result %#v", done)
	}
	if len(s.began) != 1 || s.began[0] != "meditation" {
		t.Fatalf("expected meditation to begin, got %v", s.began)
	}
}

func TestActiveScreenShowsCountdownAndCancels(t *testing.T) {
	t.Parallel()
	m, s, _ := newTestModel()
	m, _ = update(t, m, sessionStateMsg{state: sessiondto.StateOutput{
		Phase: "ACTIVE", Activity: "breathing", TimeLeftSeconds: 95, TotalDurationSeconds: 120, BreathingPhase: "BREATHE OUT", RunID: "run-1",
	}})
	view := m.View()
	if !strings.Contains(view, "01:35") || !strings.Contains(view, "BREATHE OUT") {
		t.Fatalf("unexpected active view:\n%s", view)
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("esc must cancel while active")
	}
	cmd()
	if s.cancelled != 1 {
		t.Fatalf("expected one cancel, got %d", s.cancelled)
	}
}

func TestSummaryWaitsForResult(t *testing.T) {
	t.Parallel()
	m, s, _ := newTestModel()
	summary := sessiondto.StateOutput{Phase: "SUMMARY", Activity: "gratitude", TotalDurationSeconds: 60, RunID: "run-1"}
	m, _ = update(t, m, sessionStateMsg{state: summary})
	if !strings.Contains(m.View(), "saving progress") {
		t.Fatalf("expected pending sync in summary")
	}

	m, _ = update(t, m, resultMsg{result: sessiondto.CompletionOutput{RunID: "other"}})
	if m.result != nil {
		t.Fatalf("result of another run must be ignored")
	}
	m, _ = update(t, m, resultMsg{result: sessiondto.CompletionOutput{RunID: "run-1", Saved: true}})
	if !strings.Contains(m.View(), "progress saved") {
		t.Fatalf("expected saved summary:\n%s", m.View())
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	cmd()
	if s.resets != 1 {
		t.Fatalf("expected reset back to setup")
	}
}

func TestPaletteLogin(t *testing.T) {
	t.Parallel()
	m, _, p := newTestModel()
	_, cmd := m.executePalette("login u-7")
	cmd()
	if len(p.logins) != 1 || p.logins[0] != "u-7" {
		t.Fatalf("expected login of u-7, got %v", p.logins)
	}

	next, _ := m.executePalette("begin yoga")
	m = next.(Model)
	if !strings.HasPrefix(m.status, "usage:") {
		t.Fatalf("expected usage hint, got %q", m.status)
	}
}

func TestProfileUpdatesSideCard(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel()
	m, _ = update(t, m, profileStateMsg{state: profiledto.StateOutput{UID: "u-1", Profile: profiledto.ProfileOutput{ResiliencePoints: 340}}})
	if !strings.Contains(m.View(), "340") {
		t.Fatalf("profile card must show points")
	}
}
