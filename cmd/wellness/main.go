package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wellness/internal/bootstrap"
	sessiondto "wellness/internal/modules/session/dto"
	"wellness/internal/platform/config"
	apperrors "wellness/internal/platform/errors"
	sessionview "wellness/internal/ui/views/session"
)

const resultTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "wellness",
		Short:         "Guided wellness sessions and check-ins",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newCheckInCmd(&dataDir))
	root.AddCommand(newAuthCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newProfileCmd(&dataDir))
	root.AddCommand(newSentimentCmd(&dataDir))
	return root
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wellness"
	}
	return filepath.Join(home, ".wellness")
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// withApp builds the app for one command and always closes it afterwards.
func withApp(dataDir string, fn func(app *bootstrap.App) error) (err error) {
	app, err := loadApp(dataDir)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, app.Close())
	}()
	return fn(app)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(cmd.Context(), app)
			})
		},
	}
}

func newCheckInCmd(dataDir *string) *cobra.Command {
	checkin := &cobra.Command{Use: "checkin", Short: "Mood check-ins"}

	var answers []int
	var sentiment float64
	var text, uid string
	submit := &cobra.Command{
		Use:   "submit --answers 1,2,3",
		Short: "Score a questionnaire and store the check-in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				owner, err := resolveUID(cmd.Context(), app, uid)
				if err != nil {
					return err
				}
				var explicit *float64
				if cmd.Flags().Changed("sentiment") {
					explicit = &sentiment
				}
				out, err := app.CheckInCLI.Submit(cmd.Context(), owner, answers, explicit, text)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "check-in %s score=%d state=%s sentiment=%.2f (%s)\n", out.ID, out.Score, out.State, out.Sentiment, out.SentimentSource)
				return nil
			})
		},
	}
	submit.Flags().IntSliceVar(&answers, "answers", nil, "questionnaire answers, each 1..5")
	submit.Flags().Float64Var(&sentiment, "sentiment", 0, "sentiment in [-1,1]; overrides --text")
	submit.Flags().StringVar(&text, "text", "", "free text to analyze for sentiment")
	submit.Flags().StringVar(&uid, "uid", "", "user id (defaults to the signed-in user)")

	var historyUID string
	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recent check-ins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				owner, err := resolveUID(cmd.Context(), app, historyUID)
				if err != nil {
					return err
				}
				items, err := app.CheckInCLI.History(cmd.Context(), owner, limit)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no check-ins")
					return nil
				}
				for _, c := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\t%s\t%.2f\n", c.CreatedAt.Format(time.RFC3339), c.ID, c.Score, c.State, c.Sentiment)
				}
				return nil
			})
		},
	}
	history.Flags().StringVar(&historyUID, "uid", "", "user id (defaults to the signed-in user)")
	history.Flags().IntVar(&limit, "limit", 10, "maximum number of check-ins")

	checkin.AddCommand(submit, history)
	return checkin
}

func resolveUID(ctx context.Context, app *bootstrap.App, uid string) (string, error) {
	if uid = strings.TrimSpace(uid); uid != "" {
		return uid, nil
	}
	current, err := app.ProfileCLI.Whoami(ctx)
	if err != nil {
		return "", err
	}
	if current == "" {
		return "", fmt.Errorf("%w: pass --uid or run auth login", apperrors.ErrNotSignedIn)
	}
	return current, nil
}

func newAuthCmd(dataDir *string) *cobra.Command {
	auth := &cobra.Command{Use: "auth", Short: "Local identity"}

	var uid string
	login := &cobra.Command{
		Use:   "login --uid <id>",
		Short: "Sign in as uid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.ProfileCLI.Login(cmd.Context(), uid); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", strings.TrimSpace(uid))
				return nil
			})
		},
	}
	login.Flags().StringVar(&uid, "uid", "", "user id")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.ProfileCLI.Logout(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				current, err := app.ProfileCLI.Whoami(cmd.Context())
				if err != nil {
					return err
				}
				if current == "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", current)
				return nil
			})
		},
	}

	auth.AddCommand(login, logout, status)
	return auth
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Guided sessions"}

	var kind string
	var minutes int
	run := &cobra.Command{
		Use:   "run --kind breathing --minutes 5",
		Short: "Run a timed session in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				return runSession(cmd.Context(), cmd.OutOrStdout(), app, kind, minutes)
			})
		},
	}
	run.Flags().StringVar(&kind, "kind", "breathing", "activity: "+strings.Join(bootstrap.ActivityKinds(), "|"))
	run.Flags().IntVar(&minutes, "minutes", 5, "session length in minutes")

	list := &cobra.Command{
		Use:   "list",
		Short: "List completed sessions of the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				records, err := app.ProfileCLI.ListSessions(cmd.Context())
				if err != nil {
					return err
				}
				if len(records) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, r := range records {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", r.CompletedAt.Format(time.RFC3339), r.ID, r.Activity, sessionview.Clock(r.DurationSeconds))
				}
				return nil
			})
		},
	}

	session.AddCommand(run, list)
	return session
}

// runSession counts down in the foreground. Interrupting cancels the run and
// nothing is recorded.
func runSession(ctx context.Context, out io.Writer, app *bootstrap.App, kind string, minutes int) error {
	if err := app.ProfileCLI.Follow(ctx); err != nil {
		return err
	}
	watchCtx, stopWatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWatch()
	states := app.SessionCLI.Watch(watchCtx)

	started, err := app.SessionCLI.Begin(ctx, kind, minutes)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s for %s\n", started.Activity, sessionview.Clock(started.TotalDurationSeconds))

	lastBreath := ""
	for {
		select {
		case <-ctx.Done():
			if err := app.SessionCLI.Cancel(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, apperrors.ErrNoActiveSession) {
				return err
			}
			_, _ = fmt.Fprintln(out, "cancelled, back to setup")
			return nil
		case st, ok := <-states:
			if !ok {
				return nil
			}
			if st.RunID != started.RunID {
				continue
			}
			switch st.Phase {
			case "ACTIVE":
				if st.BreathingPhase != lastBreath {
					lastBreath = st.BreathingPhase
					_, _ = fmt.Fprintf(out, "%s  %s left\n", st.BreathingPhase, sessionview.Clock(st.TimeLeftSeconds))
				}
			case "SUMMARY":
				return printResult(ctx, out, app, started.RunID)
			}
		}
	}
}

func printResult(ctx context.Context, out io.Writer, app *bootstrap.App, runID string) error {
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resultTimeout)
	defer cancel()
	res, err := app.SessionCLI.AwaitResult(waitCtx, runID)
	if err != nil {
		return fmt.Errorf("await session result: %w", err)
	}
	printCompletion(out, res)
	return nil
}

func printCompletion(out io.Writer, res sessiondto.CompletionOutput) {
	_, _ = fmt.Fprintf(out, "completed %s (%s)\n", res.Activity, sessionview.Clock(res.DurationSeconds))
	if !res.Saved {
		_, _ = fmt.Fprintf(out, "profile not updated: %s\n", res.SyncError)
		return
	}
	p := res.Profile
	_, _ = fmt.Fprintf(out, "streak=%d longest=%d today=%d minutes=%d points=%d\n", p.CurrentStreak, p.LongestStreak, p.SessionsToday, p.TotalMinutes, p.ResiliencePoints)
}

func newProfileCmd(dataDir *string) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Wellness profile"}
	profile.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the signed-in user's profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				p, err := app.ProfileCLI.GetProfile(cmd.Context())
				if err != nil {
					return err
				}
				last := p.LastActivityDate
				if last == "" {
					last = "-"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "streak: %d\nlongest: %d\nlast activity: %s\nsessions today: %d\ntotal minutes: %d\nresilience points: %d\n",
					p.CurrentStreak, p.LongestStreak, last, p.SessionsToday, p.TotalMinutes, p.ResiliencePoints)
				return nil
			})
		},
	})
	return profile
}

func newSentimentCmd(dataDir *string) *cobra.Command {
	sentiment := &cobra.Command{Use: "sentiment", Short: "Sentiment analyzer"}
	sentiment.AddCommand(&cobra.Command{
		Use:   "analyze <text>",
		Short: "Score free text in [-1,1]",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.SentimentCLI.Analyze(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%.3f\n", out.Score)
				return nil
			})
		},
	})
	sentiment.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show the configured analyzer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				info, err := app.SentimentCLI.Describe(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s\n", info.Name, info.Version)
				return nil
			})
		},
	})
	return sentiment
}
