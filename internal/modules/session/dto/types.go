package dto

import profiledto "wellness/internal/modules/profile/dto"

type BeginInput struct {
	Kind    string
	Minutes int
}

type StateOutput struct {
	Phase                string
	Activity             string
	TimeLeftSeconds      int
	TotalDurationSeconds int
	BreathingPhase       string
	RunID                string
}

// CompletionOutput is the outcome of a run that counted down to zero,
// including how the profile update went. Saved is false when the profile
// could not be updated; SyncError then says why.
type CompletionOutput struct {
	RunID           string
	Activity        string
	DurationSeconds int
	Saved           bool
	Duplicate       bool
	Profile         profiledto.ProfileOutput
	SyncError       string
}
