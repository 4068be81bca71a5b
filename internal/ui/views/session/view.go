// Package session renders the three session screens. It holds no state;
// the app model passes in everything a frame needs.
package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	profiledto "wellness/internal/modules/profile/dto"
	sessiondto "wellness/internal/modules/session/dto"
	"wellness/internal/ui/theme"
)

const barWidth = 40

// Setup lists the activities with the selected one highlighted.
func Setup(kinds []string, selected, minutes int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Choose an activity") + "\n\n")
	for i, k := range kinds {
		label := strings.ReplaceAll(k, "_", " ")
		if i == selected {
			sb.WriteString(theme.Hot.Render("▸ "+label) + "\n")
		} else {
			sb.WriteString(theme.Muted.Render("  "+label) + "\n")
		}
	}
	sb.WriteString("\n" + fmt.Sprintf("Duration: %s", theme.Hot.Render(fmt.Sprintf("%d min", minutes))))
	return theme.PaneActive.Render(sb.String())
}

// Active shows the countdown, the breathing cue and a progress bar.
func Active(st sessiondto.StateOutput) string {
	cue := theme.Inhale.Render(st.BreathingPhase)
	if st.BreathingPhase != "BREATHE IN" {
		cue = theme.Exhale.Render(st.BreathingPhase)
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(strings.ReplaceAll(st.Activity, "_", " ")),
		"",
		theme.Hot.Render(Clock(st.TimeLeftSeconds)),
		"",
		cue,
		"",
		Bar(st.TotalDurationSeconds-st.TimeLeftSeconds, st.TotalDurationSeconds, barWidth),
	)
	return theme.PaneActive.Render(body)
}

// Summary reports the finished run. result is nil while the profile sync
// is still running.
func Summary(st sessiondto.StateOutput, result *sessiondto.CompletionOutput, spinner string) string {
	var sb strings.Builder
	sb.WriteString(theme.Good.Render("Session complete") + "\n\n")
	sb.WriteString(fmt.Sprintf("%s · %d min\n\n", strings.ReplaceAll(st.Activity, "_", " "), st.TotalDurationSeconds/60))
	switch {
	case result == nil:
		sb.WriteString(spinner + " saving progress…")
	case result.Saved && result.Duplicate:
		sb.WriteString(theme.Muted.Render("already recorded"))
	case result.Saved:
		sb.WriteString(theme.Good.Render("progress saved"))
	default:
		sb.WriteString(theme.Bad.Render("session recorded locally, sync pending"))
		if result.SyncError != "" {
			sb.WriteString("\n" + theme.Muted.Render(result.SyncError))
		}
	}
	return theme.PaneActive.Render(sb.String())
}

// Profile is the side card with the user's streak and points.
func Profile(st profiledto.StateOutput) string {
	if st.UID == "" {
		return theme.Pane.Render(theme.Muted.Render("not signed in\n\n: login <uid>"))
	}
	p := st.Profile
	lines := []string{
		theme.Title.Render(st.UID),
		"",
		fmt.Sprintf("streak      %s", theme.Hot.Render(fmt.Sprintf("%d", p.CurrentStreak))),
		fmt.Sprintf("longest     %d", p.LongestStreak),
		fmt.Sprintf("today       %d/5", p.SessionsToday),
		fmt.Sprintf("minutes     %d", p.TotalMinutes),
		fmt.Sprintf("points      %s", theme.Good.Render(fmt.Sprintf("%d", p.ResiliencePoints))),
	}
	if st.Completing {
		lines = append(lines, "", theme.Muted.Render("syncing…"))
	}
	if st.LastError != "" {
		lines = append(lines, "", theme.Bad.Render("sync failed"))
	}
	return theme.Pane.Render(strings.Join(lines, "\n"))
}

// Clock formats seconds as mm:ss.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Bar draws done/total as a fixed width bar.
func Bar(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := done * width / total
	filled = max(0, min(width, filled))
	return theme.Hot.Render(strings.Repeat("█", filled)) + theme.Muted.Render(strings.Repeat("░", width-filled))
}
