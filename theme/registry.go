package theme

import (
	"context"
	"sync"
	"time"
)

// Registry owns one Switch per visitor key.
type Registry struct {
	mu       sync.RWMutex
	switches map[string]*Switch

	store    Store
	fallback Theme
	idleTTL  time.Duration
	log      Logger
	now      func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDefault sets the theme used when nothing is stored and the browser sends
// no hint (default Light).
func WithDefault(t Theme) RegistryOption {
	return func(r *Registry) {
		if t.Valid() {
			r.fallback = t
		}
	}
}

// WithIdleTTL sets how long an unused switch is kept (default 30 minutes).
func WithIdleTTL(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idleTTL = d
		}
	}
}

// WithLogger sets where storage failures are reported.
func WithLogger(l Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry creates a Registry persisting choices to store.
func NewRegistry(store Store, opts ...RegistryOption) *Registry {
	r := &Registry{
		switches: make(map[string]*Switch),
		store:    store,
		fallback: Light,
		idleTTL:  30 * time.Minute,
		log:      nopLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default returns the theme used when no other signal is available.
func (r *Registry) Default() Theme {
	return r.fallback
}

// Resolve returns the switch for key, creating it on first use. A new switch
// starts from the stored value, then hint (when hinted is true), then the
// registry default. An existing switch without an explicit choice follows a
// changed hint.
func (r *Registry) Resolve(ctx context.Context, key string, hint Theme, hinted bool) *Switch {
	hinted = hinted && hint.Valid()

	r.mu.RLock()
	s, ok := r.switches[key]
	r.mu.RUnlock()
	if ok {
		r.reuse(s, hint, hinted)
		return s
	}

	loaded := r.load(ctx, key, hint, hinted)

	r.mu.Lock()
	if s, ok := r.switches[key]; ok {
		r.mu.Unlock()
		r.reuse(s, hint, hinted)
		return s
	}
	r.switches[key] = loaded
	r.mu.Unlock()
	return loaded
}

// Lookup returns the switch for key without creating one.
func (r *Registry) Lookup(key string) (*Switch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.switches[key]
	return s, ok
}

// Len returns the number of live switches.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.switches)
}

func (r *Registry) reuse(s *Switch, hint Theme, hinted bool) {
	s.touch(r.now())
	if hinted {
		s.follow(hint)
	}
}

// load reads the stored preference without holding r.mu. Concurrent first
// requests for one key may both load; the first to insert wins.
func (r *Registry) load(ctx context.Context, key string, hint Theme, hinted bool) *Switch {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	stored, found, err := r.store.Load(ctx, key)
	if err != nil {
		r.log.Warnf("theme: load preference for %s failed, using memory only: %v", key, err)
	}
	switch {
	case err == nil && found && stored.Valid():
		s := newSwitch(key, stored, r.store, r.log, r.now)
		s.explicit = true
		return s
	case hinted:
		s := newSwitch(key, hint, r.store, r.log, r.now)
		s.degraded = err != nil
		return s
	default:
		s := newSwitch(key, r.fallback, r.store, r.log, r.now)
		s.degraded = err != nil
		return s
	}
}

// Prune drops idle switches and returns how many were removed. Switches with
// subscribers or with a value that only exists in memory are kept.
func (r *Registry) Prune() int {
	cutoff := r.now().Add(-r.idleTTL)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, s := range r.switches {
		if s.idle(cutoff) {
			delete(r.switches, key)
			removed++
		}
	}
	return removed
}

// StartPruner runs Prune every interval until the returned func is called.
func (r *Registry) StartPruner(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				r.Prune()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
