package theme

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2024, 3, 9, 22, 12, 3, 0, time.UTC)
	return func() time.Time { return t0 }
}

// failingStore refuses every write and, when readErr is set, every read.
type failingStore struct {
	readErr bool
	mu      sync.Mutex
	saves   int
}

func (f *failingStore) Load(context.Context, string) (Theme, bool, error) {
	if f.readErr {
		return "", false, errors.New("storage disabled")
	}
	return "", false, nil
}

func (f *failingStore) Save(context.Context, string, Theme) error {
	f.mu.Lock()
	f.saves++
	f.mu.Unlock()
	return errors.New("quota exceeded")
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func TestToggleTwiceRestoresOriginal(t *testing.T) {
	ctx := context.Background()
	for _, start := range []Theme{Light, Dark} {
		store := NewMemoryStore()
		s := newSwitch("visitor", start, store, nopLogger{}, fixedClock())

		assert.Equal(t, start.Complement(), s.Toggle(ctx))
		assert.Equal(t, start, s.Toggle(ctx))
		assert.Equal(t, start, s.Current())

		stored, ok, err := store.Load(ctx, "visitor")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, start, stored)
	}
}

func TestSetRejectsInvalid(t *testing.T) {
	s := newSwitch("visitor", Light, NewMemoryStore(), nopLogger{}, fixedClock())
	assert.ErrorIs(t, s.Set(context.Background(), Theme("blue")), ErrInvalidTheme)
	assert.Equal(t, Light, s.Current())
	assert.False(t, s.Explicit())
}

func TestSubscribersSeeEveryChange(t *testing.T) {
	ctx := context.Background()
	s := newSwitch("visitor", Light, NewMemoryStore(), nopLogger{}, fixedClock())

	var first, second []Theme
	unsubFirst := s.Subscribe(func(t Theme) { first = append(first, t) })
	unsubSecond := s.Subscribe(func(t Theme) { second = append(second, t) })
	defer unsubSecond()
	require.Equal(t, 2, s.Subscribers())

	s.Toggle(ctx)
	unsubFirst()
	unsubFirst()
	s.Toggle(ctx)

	assert.Equal(t, []Theme{Dark}, first)
	assert.Equal(t, []Theme{Dark, Light}, second)
	assert.Equal(t, 1, s.Subscribers())
}

func TestToggleSurvivesStoreWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{}
	log := &recordingLogger{}
	s := newSwitch("visitor", Light, store, log, fixedClock())

	var seen Theme
	s.Subscribe(func(t Theme) { seen = t })

	assert.Equal(t, Dark, s.Toggle(ctx))
	assert.Equal(t, Dark, s.Current())
	assert.Equal(t, Dark, seen)
	assert.True(t, s.Degraded())
	require.Len(t, log.lines, 1)
	assert.Contains(t, log.lines[0], "quota exceeded")

	// Memory-only for the rest of the session: no more write attempts.
	assert.Equal(t, Light, s.Toggle(ctx))
	assert.Equal(t, Light, s.Current())
	assert.Equal(t, 1, store.saves)
}

func TestConcurrentTogglesKeepAnEvenCount(t *testing.T) {
	ctx := context.Background()
	s := newSwitch("visitor", Light, NewMemoryStore(), nopLogger{}, fixedClock())

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle(ctx)
		}()
	}
	wg.Wait()
	assert.Equal(t, Light, s.Current())
}
