package domain

import (
	"fmt"
	"strings"

	apperrors "wellness/internal/platform/errors"
)

type Phase string

const (
	PhaseSetup   Phase = "SETUP"
	PhaseActive  Phase = "ACTIVE"
	PhaseSummary Phase = "SUMMARY"
)

type ActivityKind string

const (
	ActivityBreathing  ActivityKind = "breathing"
	ActivityMeditation ActivityKind = "meditation"
	ActivityBodyScan   ActivityKind = "body_scan"
	ActivityGratitude  ActivityKind = "gratitude"
)

var activityKinds = []ActivityKind{ActivityBreathing, ActivityMeditation, ActivityBodyScan, ActivityGratitude}

func ActivityKinds() []ActivityKind {
	return append([]ActivityKind(nil), activityKinds...)
}

func ParseActivityKind(raw string) (ActivityKind, error) {
	kind := ActivityKind(strings.ToLower(strings.TrimSpace(raw)))
	for _, k := range activityKinds {
		if k == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: unknown activity %q", apperrors.ErrInvalidArgument, raw)
}

const (
	MaxMinutes = 180

	BreatheIn  = "BREATHE IN"
	BreatheOut = "BREATHE OUT"

	// One breathing cycle is four seconds in, four seconds out.
	breathCycleSeconds = 8
	breathInSeconds    = 4
)

type State struct {
	Phase                Phase
	Activity             ActivityKind
	TimeLeftSeconds      int
	TotalDurationSeconds int
	BreathingPhase       string
	RunID                string
}

func (s State) ElapsedSeconds() int {
	return s.TotalDurationSeconds - s.TimeLeftSeconds
}

// ValidateRun checks the arguments of a run without starting it.
func ValidateRun(kind ActivityKind, minutes int) error {
	if _, err := ParseActivityKind(string(kind)); err != nil {
		return err
	}
	if minutes <= 0 || minutes > MaxMinutes {
		return fmt.Errorf("%w: minutes must be in 1..%d, got %d", apperrors.ErrInvalidArgument, MaxMinutes, minutes)
	}
	return nil
}

// Machine is the session countdown. It holds no goroutines; the caller feeds
// it one Tick per elapsed second.
type Machine struct {
	state State
}

func NewMachine() *Machine {
	return &Machine{state: State{Phase: PhaseSetup}}
}

func (m *Machine) State() State {
	return m.state
}

// Start begins a new run from any phase.
func (m *Machine) Start(kind ActivityKind, minutes int, runID string) error {
	if err := ValidateRun(kind, minutes); err != nil {
		return err
	}
	total := 60 * minutes
	m.state = State{
		Phase:                PhaseActive,
		Activity:             kind,
		TimeLeftSeconds:      total,
		TotalDurationSeconds: total,
		BreathingPhase:       BreatheIn,
		RunID:                runID,
	}
	return nil
}

// Tick advances an active run by one second. It reports true exactly once,
// on the tick that moves the run to SUMMARY.
func (m *Machine) Tick() bool {
	if m.state.Phase != PhaseActive {
		return false
	}
	m.state.TimeLeftSeconds--
	m.state.BreathingPhase = breathingPhase(m.state.ElapsedSeconds())
	if m.state.TimeLeftSeconds > 0 {
		return false
	}
	m.state.TimeLeftSeconds = 0
	m.state.Phase = PhaseSummary
	return true
}

func (m *Machine) Cancel() error {
	if m.state.Phase != PhaseActive {
		return apperrors.ErrNoActiveSession
	}
	m.Reset()
	return nil
}

func (m *Machine) Reset() {
	m.state = State{Phase: PhaseSetup}
}

func breathingPhase(elapsed int) string {
	if elapsed%breathCycleSeconds < breathInSeconds {
		return BreatheIn
	}
	return BreatheOut
}
