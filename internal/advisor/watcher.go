package advisor

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last battle file
// change before reloading.
const DefaultDebounce = 2 * time.Second

// Watch reloads the service whenever battle files in dir are created,
// written, removed or renamed. Bursts of events within debounce collapse
// into one reload. Watch blocks until ctx is done.
func (s *Service) Watch(ctx context.Context, dir string, debounce time.Duration) (err error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch battle directory: %w", err)
	}
	log.Printf("[Watcher] Watching %s for battle file changes", dir)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isBattleFileEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Watcher] File watcher error: %v", werr)

		case <-fire:
			fire = nil
			snap, rerr := s.Reload(ctx)
			if rerr != nil {
				log.Printf("[Watcher] Reload failed, keeping previous snapshot: %v", rerr)
				continue
			}
			log.Printf("[Watcher] Reloaded %d battles (snapshot %d)", snap.Records, snap.Version)
		}
	}
}

func isBattleFileEvent(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
