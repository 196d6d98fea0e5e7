package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"scenecards/internal/service"
)

// cardWatcher notices drawings written by another process (the standalone
// MCP server) for cards that have an open session here, and syncs them in.
// fsnotify on the database directory gives fast wakeups; a 2s poll covers
// filesystems where events are not delivered.
type cardWatcher struct {
	ctx      context.Context
	scenes   *service.SceneService
	drawings *service.DrawingService
	emitter  service.EventEmitter

	checkMu sync.Mutex
	seen    map[string]string // cardID -> last stored fingerprint

	fs     *fsnotify.Watcher
	stopCh chan struct{}
	stop   sync.Once
}

func newCardWatcher(ctx context.Context, scenes *service.SceneService, drawings *service.DrawingService, emitter service.EventEmitter) *cardWatcher {
	return &cardWatcher{
		ctx:      ctx,
		scenes:   scenes,
		drawings: drawings,
		emitter:  emitter,
		seen:     make(map[string]string),
		stopCh:   make(chan struct{}),
	}
}

// Start begins polling and, if possible, watching the directory of dbPath.
// Polling keeps running when the file watcher cannot be created.
func (w *cardWatcher) Start(dbPath string) error {
	go w.pollLoop()

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(dbPath)); err != nil {
		fs.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(dbPath), err)
	}
	w.fs = fs
	go w.watchLoop(filepath.Base(dbPath))
	return nil
}

// Stop terminates both loops. Safe to call more than once.
func (w *cardWatcher) Stop() {
	w.stop.Do(func() {
		close(w.stopCh)
		if w.fs != nil {
			w.fs.Close()
		}
	})
}

func (w *cardWatcher) pollLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *cardWatcher) watchLoop(dbFile string) {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			// scenecards.db, scenecards.db-wal, scenecards.db-shm
			if !strings.HasPrefix(filepath.Base(event.Name), dbFile) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.check()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("[WATCH] watcher error: %v", err)
		case <-w.stopCh:
			return
		}
	}
}

// check compares the stored fingerprint of every open card with the last
// one seen and refreshes the sessions whose card changed. It returns the
// cards whose session took the stored drawing.
func (w *cardWatcher) check() []string {
	w.checkMu.Lock()
	defer w.checkMu.Unlock()

	open := w.drawings.OpenCards()
	live := make(map[string]bool, len(open))
	var refreshed []string

	for _, cardID := range open {
		live[cardID] = true
		fp, err := w.scenes.CardFingerprint(cardID)
		if err != nil {
			continue
		}
		if w.seen[cardID] == fp {
			continue
		}
		w.seen[cardID] = fp

		// our own commits come back here too; Sync ignores them
		replaced, err := w.drawings.Refresh(cardID)
		if err != nil || !replaced {
			continue
		}
		session, err := w.drawings.Session(cardID)
		if err != nil {
			continue
		}
		log.Printf("[WATCH] card %s changed on disk", cardID)
		w.emitter.Emit(w.ctx, service.EventDrawingChanged, service.DrawingChange{
			CardID:  cardID,
			Objects: session.Objects(),
		})
		refreshed = append(refreshed, cardID)
	}

	for cardID := range w.seen {
		if !live[cardID] {
			delete(w.seen, cardID)
		}
	}
	return refreshed
}
