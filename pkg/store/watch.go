package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long the watcher waits for a burst of writes to finish. A
// login writes both slots back to back.
const settle = 100 * time.Millisecond

// Event reports the slots another writer touched during one burst.
type Event struct {
	Slots []string
}

// Touched reports whether slot is part of the event.
func (e Event) Touched(slot string) bool {
	return slices.Contains(e.Slots, slot)
}

// Watch streams change events until ctx is done. The channel is closed when
// ctx ends or the watcher fails. Events are dropped while the consumer is
// busy; consumers reread the slots anyway.
func (s *slots) Watch(ctx context.Context) (<-chan Event, error) {
	if s.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	if err := w.Add(s.basePath); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("store: watch %s: %w", s.basePath, err)
	}

	out := make(chan Event, 4)
	go func() {
		defer close(out)
		defer w.Close()

		timer := time.NewTimer(settle)
		timer.Stop()
		defer timer.Stop()

		var pending []string
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				name := filepath.Base(ev.Name)
				if !isSlot(name) || ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if !slices.Contains(pending, name) {
					pending = append(pending, name)
				}
				timer.Reset(settle)
			case <-timer.C:
				if len(pending) == 0 {
					continue
				}
				select {
				case out <- Event{Slots: pending}:
				default:
				}
				pending = nil
			}
		}
	}()
	return out, nil
}
