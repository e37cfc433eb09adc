package content

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Logger is the subset of echo.Logger the watcher reports to.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Watch reloads s whenever its file changes, until ctx is cancelled. Bursts
// of events within debounce collapse into one reload. onReload, when non-nil,
// runs after every successful reload.
//
// The parent directory is watched rather than the file so editors that
// replace the file on save keep triggering reloads.
func (s *Source) Watch(ctx context.Context, debounce time.Duration, log Logger, onReload func(PageData)) error {
	if s.path == "" {
		return fmt.Errorf("content: watch: source has no file")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content: watch: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("content: watch %s: %w", dir, err)
	}
	log.Infof("content: watching %s", s.path)

	go func() {
		defer w.Close()
		target := filepath.Clean(s.path)
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Reset(debounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				if err := s.Reload(); err != nil {
					log.Warnf("content: reload %s: %v", s.path, err)
					continue
				}
				log.Infof("content: reloaded %s", s.path)
				if onReload != nil {
					onReload(s.Current())
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnf("content: watcher: %v", err)
			}
		}
	}()
	return nil
}
