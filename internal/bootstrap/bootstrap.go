package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	checkininadapter "wellness/internal/modules/checkin/adapter/in"
	checkinoutadapter "wellness/internal/modules/checkin/adapter/out"
	checkinservice "wellness/internal/modules/checkin/service"
	checkinusecase "wellness/internal/modules/checkin/usecase"
	profileinadapter "wellness/internal/modules/profile/adapter/in"
	profileoutadapter "wellness/internal/modules/profile/adapter/out"
	profileservice "wellness/internal/modules/profile/service"
	profileusecase "wellness/internal/modules/profile/usecase"
	sentimentinadapter "wellness/internal/modules/sentiment/adapter/in"
	sentimentoutadapter "wellness/internal/modules/sentiment/adapter/out"
	sentimentout "wellness/internal/modules/sentiment/port/out"
	sentimentservice "wellness/internal/modules/sentiment/service"
	sentimentusecase "wellness/internal/modules/sentiment/usecase"
	sessioninadapter "wellness/internal/modules/session/adapter/in"
	sessiondomain "wellness/internal/modules/session/domain"
	sessionservice "wellness/internal/modules/session/service"
	sessionusecase "wellness/internal/modules/session/usecase"
	"wellness/internal/platform/clock"
	"wellness/internal/platform/config"
	"wellness/internal/platform/docstore"
	"wellness/internal/platform/id"
	"wellness/internal/platform/logging"
	"wellness/internal/platform/metrics"
	uiapp "wellness/internal/ui/app"
)

type App struct {
	Logger *slog.Logger

	CheckInCLI   checkininadapter.CLIHandler
	SentimentCLI sentimentinadapter.CLIHandler
	ProfileCLI   profileinadapter.CLIHandler
	SessionCLI   sessioninadapter.CLIHandler

	closers []func() error
}

// Options carries process-level overrides that do not live in config.yaml.
type Options struct {
	LogOutput io.Writer
	// InMemoryStore keeps the document store off disk.
	InMemoryStore bool
	Clock         clock.Clock
}

func New(cfg config.Config) (*App, error) {
	return NewWithOptions(cfg, Options{})
}

func NewWithOptions(cfg config.Config, opts Options) (*App, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	clk := opts.Clock
	ids := id.UUID{}
	logger := logging.New(cfg.LogLevel, opts.LogOutput)
	app := &App{Logger: logger}

	storeCfg := docstore.DefaultConfig(cfg.StorePath)
	if opts.InMemoryStore {
		storeCfg = docstore.InMemoryConfig()
	}
	storeCfg.Logger = logger.With("component", "docstore")
	docs, err := docstore.Open(storeCfg, ids)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	app.closers = append(app.closers, docs.Close)

	checkInStore, err := checkinoutadapter.NewSQLiteCheckInStore(cfg.DBPath)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new checkin store: %w", err)
	}
	app.closers = append(app.closers, checkInStore.Close)

	profileStore := profileoutadapter.NewDocumentProfileStore(docs)
	authSource := profileoutadapter.NewFileAuthSource(cfg.AuthPath, logger.With("component", "auth"))
	controller := profileservice.NewSyncController(clk, cfg.Location, profileStore, logger.With("component", "profile"))
	profileUC := profileusecase.NewInteractor(controller, profileStore, authSource)

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewTimer(clk, logger.With("component", "session")),
		ids,
		profileUC,
		logger.With("component", "session"),
	)

	sentimentUC := sentimentusecase.NewInteractor(sentimentservice.NewAnalyzerService(
		newAnalyzer(cfg, opts.LogOutput),
		logger.With("component", "sentiment"),
	))
	checkInUC := checkinusecase.NewInteractor(
		checkinservice.NewCheckInService(clk, ids, checkInStore),
		sentimentUC,
		logger.With("component", "checkin"),
	)

	if cfg.MetricsAddr != "" {
		srv, err := metrics.Listen(cfg.MetricsAddr, logger.With("component", "metrics"))
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.closers = append(app.closers, srv.Close)
	}

	app.CheckInCLI = checkininadapter.NewCLIHandler(checkInUC)
	app.SentimentCLI = sentimentinadapter.NewCLIHandler(sentimentUC)
	app.ProfileCLI = profileinadapter.NewCLIHandler(profileUC)
	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	return app, nil
}

func newAnalyzer(cfg config.Config, logOutput io.Writer) sentimentout.Analyzer {
	if cfg.SentimentPlugin == "" {
		return sentimentoutadapter.NewLexiconAnalyzer(nil)
	}
	return sentimentoutadapter.NewGRPCAnalyzer(cfg.SentimentPlugin, logging.HCLog("sentiment", cfg.LogLevel, logOutput))
}

// Close stops the session timer, lets pending profile writes finish, then
// releases the stores in reverse order of opening.
func (a *App) Close() error {
	if a.SessionCLI != (sessioninadapter.CLIHandler{}) {
		a.SessionCLI.Close()
	}
	if a.ProfileCLI != (profileinadapter.CLIHandler{}) {
		a.ProfileCLI.Close()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func ActivityKinds() []string {
	kinds := sessiondomain.ActivityKinds()
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, string(k))
	}
	return out
}

func RunTUI(ctx context.Context, app *App) error {
	if err := app.ProfileCLI.Follow(ctx); err != nil {
		return err
	}
	model := uiapp.NewModel(ctx, app.SessionCLI, app.ProfileCLI, ActivityKinds())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
