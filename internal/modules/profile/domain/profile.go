package domain

import "time"

const (
	MaxSessionsToday = 5

	basePoints        = 50
	pointsPerMinute   = 10
	pointsPerDailyRun = 20
)

// Profile is the remotely authoritative streak/points aggregate of one user.
type Profile struct {
	CurrentStreak    int    `json:"currentStreak"`
	LongestStreak    int    `json:"longestStreak"`
	LastActivityDate string `json:"lastActivityDate"`
	TotalMinutes     int    `json:"totalMinutes"`
	SessionsToday    int    `json:"sessionsToday"`
	ResiliencePoints int    `json:"resiliencePoints"`
	LastSessionID    string `json:"lastSessionId,omitempty"`
}

// Accrue folds one completed session of durationMinutes into current. today
// and yesterday are calendar dates in the user's zone ("2006-01-02").
func Accrue(current Profile, durationMinutes int, today, yesterday string) Profile {
	next := current

	switch current.LastActivityDate {
	case today:
	case yesterday:
		next.CurrentStreak = current.CurrentStreak + 1
	default:
		next.CurrentStreak = 1
	}

	if current.LastActivityDate == today {
		next.SessionsToday = min(current.SessionsToday+1, MaxSessionsToday)
	} else {
		next.SessionsToday = 1
	}

	earned := basePoints + durationMinutes*pointsPerMinute + next.SessionsToday*pointsPerDailyRun
	next.ResiliencePoints = current.ResiliencePoints + earned
	next.LongestStreak = max(current.LongestStreak, next.CurrentStreak)
	next.TotalMinutes = current.TotalMinutes + durationMinutes
	next.LastActivityDate = today
	return next
}

// SessionRecord is the immutable log entry of one completed activity.
type SessionRecord struct {
	ID              string    `json:"id"`
	UID             string    `json:"uid"`
	Activity        string    `json:"activity"`
	DurationSeconds int       `json:"durationSeconds"`
	CompletedAt     time.Time `json:"completedAt"`
}

// AuthEvent reports the signed-in user. An empty UID means signed out.
type AuthEvent struct {
	UID string
}

func (e AuthEvent) SignedIn() bool {
	return e.UID != ""
}

// Snapshot is one pushed value of a watched profile document.
type Snapshot struct {
	Profile Profile
	Exists  bool
	Version uint64
}
