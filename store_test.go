package folio

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/folio/theme"
)

func setupTestStore(t *testing.T) *PrefStore {
	t.Helper()
	s, err := NewPrefStore(filepath.Join(t.TempDir(), "data", "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPrefStoreLoadMissing(t *testing.T) {
	s := setupTestStore(t)

	_, ok, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrefStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	require.NoError(t, s.Save(ctx, "visitor", theme.Dark))
	got, ok, err := s.Load(ctx, "visitor")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, theme.Dark, got)

	require.NoError(t, s.Save(ctx, "visitor", theme.Light))
	got, _, err = s.Load(ctx, "visitor")
	require.NoError(t, err)
	assert.Equal(t, theme.Light, got)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPrefStoreRejectsInvalidTheme(t *testing.T) {
	s := setupTestStore(t)
	assert.ErrorIs(t, s.Save(context.Background(), "visitor", theme.Theme("sepia")), theme.ErrInvalidTheme)
}

func TestPrefStoreDeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	require.NoError(t, s.Save(ctx, "a", theme.Dark))

	removed, err := s.DeleteOlderThan(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = s.DeleteOlderThan(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestPrefStoreClosedFailsAndRegistryDegrades(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	r := theme.NewRegistry(s)
	sw := r.Resolve(ctx, "visitor", theme.Dark, true)

	require.NoError(t, s.Close())
	assert.Error(t, s.Save(ctx, "visitor", theme.Light))

	assert.Equal(t, theme.Light, sw.Toggle(ctx))
	assert.Equal(t, theme.Light, sw.Current())
	assert.True(t, sw.Degraded())
	assert.Same(t, sw, r.Resolve(ctx, "visitor", theme.Dark, true))
	assert.Equal(t, theme.Light, sw.Current())
}

func TestPrefStorePersistsAfterCancelledRequest(t *testing.T) {
	s := setupTestStore(t)
	r := theme.NewRegistry(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sw := r.Resolve(ctx, "visitor", "", false)
	assert.False(t, sw.Degraded())

	assert.Equal(t, theme.Dark, sw.Toggle(context.Background()))
	got, ok, err := s.Load(context.Background(), "visitor")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, theme.Dark, got)
}
