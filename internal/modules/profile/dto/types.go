package dto

import "time"

type ProfileOutput struct {
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate string
	TotalMinutes     int
	SessionsToday    int
	ResiliencePoints int
}

type CompleteInput struct {
	RunID           string
	Activity        string
	DurationSeconds int
}

// CompleteOutput reports how the profile sync went. SyncErr is set when the
// profile could not be read or written; the completed session itself is not
// lost in that case, only the profile update.
type CompleteOutput struct {
	RecordID     string
	Profile      ProfileOutput
	SessionSaved bool
	Duplicate    bool
	SyncErr      error
}

type StateOutput struct {
	UID          string
	Profile      ProfileOutput
	Completing   bool
	SessionSaved bool
	LastError    string
}

type SessionRecordOutput struct {
	ID              string
	Activity        string
	DurationSeconds int
	CompletedAt     time.Time
}
