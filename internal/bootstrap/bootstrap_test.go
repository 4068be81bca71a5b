package bootstrap

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness/internal/platform/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	app, err := NewWithOptions(cfg, Options{LogOutput: io.Discard, InMemoryStore: true})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })
	return app
}

func TestNewWiresCheckInWithLexiconFallback(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	out, err := app.CheckInCLI.Submit(ctx, "u-1", []int{3, 3, 3}, nil, "feeling calm and happy today")
	require.NoError(t, err)
	assert.Equal(t, "analyzed", out.SentimentSource)
	assert.Greater(t, out.Sentiment, 0.0)

	history, err := app.CheckInCLI.History(ctx, "u-1", 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, out.ID, history[0].ID)
}

func TestNewFollowsLoginIntoProfileState(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.ProfileCLI.Follow(ctx))
	require.NoError(t, app.ProfileCLI.Login(ctx, "u-7"))

	assert.Eventually(t, func() bool {
		return app.ProfileCLI.State(ctx).UID == "u-7"
	}, 3*time.Second, 10*time.Millisecond)
}

func TestActivityKindsListsEveryKind(t *testing.T) {
	assert.Equal(t, []string{"breathing", "meditation", "body_scan", "gratitude"}, ActivityKinds())
}
