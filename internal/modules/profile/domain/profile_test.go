package domain

import "testing"

const (
	today     = "2026-02-25"
	yesterday = "2026-02-24"
)

func TestAccrueFirstEverSession(t *testing.T) {
	t.Parallel()
	got := Accrue(Profile{}, 10, today, yesterday)
	want := Profile{
		CurrentStreak:    1,
		LongestStreak:    1,
		LastActivityDate: today,
		TotalMinutes:     10,
		SessionsToday:    1,
		ResiliencePoints: 50 + 100 + 20,
	}
	if got != want {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestAccrueContinuesStreakFromYesterday(t *testing.T) {
	t.Parallel()
	current := Profile{CurrentStreak: 4, LongestStreak: 4, LastActivityDate: yesterday, SessionsToday: 3, ResiliencePoints: 900}
	got := Accrue(current, 10, today, yesterday)
	if got.CurrentStreak != 5 {
		t.Fatalf("expected streak 5, got %d", got.CurrentStreak)
	}
	if got.LongestStreak != 5 {
		t.Fatalf("expected longest streak 5, got %d", got.LongestStreak)
	}
	if got.SessionsToday != 1 {
		t.Fatalf("new day must reset sessions today, got %d", got.SessionsToday)
	}
	if got.ResiliencePoints != 900+50+100+20 {
		t.Fatalf("unexpected points %d", got.ResiliencePoints)
	}
}

func TestAccrueGapResetsStreak(t *testing.T) {
	t.Parallel()
	for _, last := range []string{"2026-02-23", "2025-12-01", ""} {
		current := Profile{CurrentStreak: 17, LongestStreak: 20, LastActivityDate: last}
		got := Accrue(current, 5, today, yesterday)
		if got.CurrentStreak != 1 {
			t.Fatalf("last=%q: expected streak reset to 1, got %d", last, got.CurrentStreak)
		}
		if got.LongestStreak != 20 {
			t.Fatalf("last=%q: longest streak must be kept, got %d", last, got.LongestStreak)
		}
	}
}

func TestAccrueSameDayCapsSessionsButNotPoints(t *testing.T) {
	t.Parallel()
	p := Profile{}
	prevPoints := 0
	for i := 1; i <= 8; i++ {
		p = Accrue(p, 1, today, yesterday)
		wantSessions := min(i, MaxSessionsToday)
		if p.SessionsToday != wantSessions {
			t.Fatalf("run %d: expected sessions today %d, got %d", i, wantSessions, p.SessionsToday)
		}
		if p.ResiliencePoints <= prevPoints {
			t.Fatalf("run %d: points must keep increasing, %d -> %d", i, prevPoints, p.ResiliencePoints)
		}
		if earned := p.ResiliencePoints - prevPoints; earned != 50+10+wantSessions*20 {
			t.Fatalf("run %d: unexpected earned %d", i, earned)
		}
		prevPoints = p.ResiliencePoints
		if p.CurrentStreak != 1 {
			t.Fatalf("run %d: same day must not grow streak, got %d", i, p.CurrentStreak)
		}
	}
	if p.TotalMinutes != 8 {
		t.Fatalf("expected 8 total minutes, got %d", p.TotalMinutes)
	}
}

func TestAccrueLeavesInputUntouched(t *testing.T) {
	t.Parallel()
	current := Profile{CurrentStreak: 2, LastActivityDate: yesterday, LastSessionID: "run-1"}
	_ = Accrue(current, 10, today, yesterday)
	if current.CurrentStreak != 2 || current.LastActivityDate != yesterday {
		t.Fatalf("input mutated: %+v", current)
	}
}
