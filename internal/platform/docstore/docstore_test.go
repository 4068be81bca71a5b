package docstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wellness/internal/platform/errors"
)

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return fmt.Sprintf("id-%03d", s.n)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(InMemoryConfig(), &seqIDs{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func next(t *testing.T, ch <-chan Document) Document {
	t.Helper()
	select {
	case doc, ok := <-ch:
		require.True(t, ok, "subscription closed early")
		return doc
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Document{}
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "users/u-1/stats/wellness")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, store.Set(ctx, "users/u-1/stats/wellness", []byte(`{"a":1}`)))
	doc, err := store.Get(ctx, "users/u-1/stats/wellness")
	require.NoError(t, err)
	assert.True(t, doc.Exists)
	assert.JSONEq(t, `{"a":1}`, string(doc.Data))
	assert.NotZero(t, doc.Version)
}

func TestAddAndListDirectChildren(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Add(ctx, "users/u-1/sessions", []byte(`{"n":1}`))
	require.NoError(t, err)
	second, err := store.Add(ctx, "users/u-1/sessions", []byte(`{"n":2}`))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "users/u-1/sessions/x/nested", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "users/u-2/sessions/other", []byte(`{}`)))

	docs, err := store.List(ctx, "users/u-1/sessions")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "users/u-1/sessions/"+first, docs[0].Path)
	assert.Equal(t, "users/u-1/sessions/"+second, docs[1].Path)
}

func TestInvalidPathsAreRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for _, p := range []string{"", "/users", "users/", "users//x"} {
		_, err := store.Get(ctx, p)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument, p)
	}
	assert.ErrorIs(t, store.Set(ctx, "users/u-1", nil), apperrors.ErrInvalidArgument)
}

func TestSubscribeDeliversInitialThenWrites(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	path := "users/u-1/stats/wellness"

	ch, err := store.Subscribe(ctx, path)
	require.NoError(t, err)

	initial := next(t, ch)
	assert.False(t, initial.Exists)

	require.NoError(t, store.Set(ctx, path, []byte(`{"v":1}`)))
	require.NoError(t, store.Set(ctx, "users/u-1/stats/wellness-other", []byte(`{"v":9}`)))
	require.NoError(t, store.Set(ctx, path, []byte(`{"v":2}`)))

	first := next(t, ch)
	assert.True(t, first.Exists)
	assert.JSONEq(t, `{"v":1}`, string(first.Data))
	secondDoc := next(t, ch)
	assert.JSONEq(t, `{"v":2}`, string(secondDoc.Data))
	assert.Greater(t, secondDoc.Version, first.Version)

	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(3 * time.Second):
		t.Fatal("subscription did not close after cancel")
	}
}

func TestSubscribeStartsFromExistingValue(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	path := "users/u-9/stats/wellness"
	require.NoError(t, store.Set(ctx, path, []byte(`{"v":7}`)))

	ch, err := store.Subscribe(ctx, path)
	require.NoError(t, err)
	doc := next(t, ch)
	assert.True(t, doc.Exists)
	assert.JSONEq(t, `{"v":7}`, string(doc.Data))
}
