package theme

import (
	"context"
	"sync"
	"time"
)

// Switch is the observable theme of one visitor. Writes go through Set and
// Toggle; any number of readers may call Current or Subscribe.
//
// Subscribers run synchronously on the writing goroutine and must not write
// to the same Switch.
type Switch struct {
	key   string
	store Store
	log   Logger
	now   func() time.Time

	writeMu sync.Mutex // serializes Set: update, persist, notify

	mu       sync.RWMutex
	value    Theme
	explicit bool
	degraded bool
	lastUsed time.Time
	subs     map[uint64]func(Theme)
	nextID   uint64
}

func newSwitch(key string, initial Theme, store Store, log Logger, now func() time.Time) *Switch {
	return &Switch{
		key:      key,
		store:    store,
		log:      log,
		now:      now,
		value:    initial,
		lastUsed: now(),
		subs:     make(map[uint64]func(Theme)),
	}
}

// Key returns the visitor key the switch belongs to.
func (s *Switch) Key() string {
	return s.key
}

// Current returns the theme in effect.
func (s *Switch) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Explicit reports whether the value came from the visitor rather than the
// browser hint or the default.
func (s *Switch) Explicit() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.explicit
}

// Degraded reports whether the store failed and the value lives only in memory.
func (s *Switch) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Subscribe registers fn to be called with every new value. The returned
// func removes the subscription and is safe to call more than once.
func (s *Switch) Subscribe(fn func(Theme)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Switch) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Toggle flips the theme to its complement and returns the new value.
func (s *Switch) Toggle(ctx context.Context) Theme {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	next := s.Current().Complement()
	s.apply(ctx, next)
	return next
}

// Set makes t the visitor's explicit choice.
func (s *Switch) Set(ctx context.Context, t Theme) error {
	if !t.Valid() {
		return ErrInvalidTheme
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.apply(ctx, t)
	return nil
}

// apply must be called with writeMu held.
func (s *Switch) apply(ctx context.Context, t Theme) {
	s.mu.Lock()
	s.value = t
	s.explicit = true
	s.lastUsed = s.now()
	degraded := s.degraded
	s.mu.Unlock()

	if !degraded {
		ctx, cancel := storeContext(ctx)
		err := s.store.Save(ctx, s.key, t)
		cancel()
		if err != nil {
			s.log.Warnf("theme: save %s for %s failed, keeping it in memory: %v", t, s.key, err)
			s.markDegraded()
		}
	}
	s.notify(t)
}

// follow moves a switch that has no explicit choice to the browser's
// current preference.
func (s *Switch) follow(hint Theme) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.explicit || s.value == hint {
		s.mu.Unlock()
		return
	}
	s.value = hint
	s.mu.Unlock()
	s.notify(hint)
}

func (s *Switch) notify(t Theme) {
	s.mu.RLock()
	fns := make([]func(Theme), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(t)
	}
}

func (s *Switch) markDegraded() {
	s.mu.Lock()
	s.degraded = true
	s.mu.Unlock()
}

func (s *Switch) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

// idle reports whether the switch can be dropped: nobody listens, nothing
// would be lost, and it has not been used since cutoff.
func (s *Switch) idle(cutoff time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs) == 0 && !s.degraded && s.lastUsed.Before(cutoff)
}
