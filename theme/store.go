package theme

import (
	"context"
	"sync"
	"time"
)

// storeTimeout bounds a single Load or Save.
const storeTimeout = 10 * time.Second

// storeContext detaches store calls from the request so a client that goes
// away mid-request cannot make a healthy store look unavailable.
func storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
}

// Store persists one theme per visitor key.
type Store interface {
	// Load returns the stored theme for key. ok is false when nothing is stored.
	Load(ctx context.Context, key string) (t Theme, ok bool, err error)
	// Save stores t for key, replacing any previous value.
	Save(ctx context.Context, key string, t Theme) error
}

// Logger is the subset of echo.Logger the package writes to.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]Theme
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]Theme)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (Theme, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.values[key]
	return t, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, t Theme) error {
	if !t.Valid() {
		return ErrInvalidTheme
	}
	m.mu.Lock()
	m.values[key] = t
	m.mu.Unlock()
	return nil
}
