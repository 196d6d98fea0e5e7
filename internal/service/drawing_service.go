package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"scenecards/internal/domain"
	"scenecards/internal/drawing"
)

// ─────────────────────────────────────────────────────────────
// Drawing Service — live drawing sessions per card
// ─────────────────────────────────────────────────────────────
//
// Each open card gets one drawing.Session. The session's debounced change
// callback is the only path that writes drawing_data; it also emits
// card:drawing-changed and publishes to the player feed.

// ErrSessionNotOpen is returned when a card has no live drawing session.
var ErrSessionNotOpen = errors.New("drawing session not open")

// EventDrawingChanged is emitted after a card's drawing was committed.
const EventDrawingChanged = "card:drawing-changed"

// Publisher receives every committed drawing. The player feed implements it.
type Publisher interface {
	Publish(cardID string, objects []domain.DrawObject)
}

// DrawingOptions tunes the sessions created by a DrawingService.
type DrawingOptions struct {
	Catalog   *drawing.Catalog
	Debounce  time.Duration
	Reconcile drawing.Reconcile
	// AfterFunc replaces the debounce timer, for tests.
	AfterFunc drawing.AfterFunc
	// Now replaces the clock used for idle tracking, for tests.
	Now func() time.Time
}

// DrawingChange is the payload of EventDrawingChanged.
type DrawingChange struct {
	CardID  string                 `json:"cardId"`
	Objects domain.DrawAreaObjects `json:"objects"`
}

type liveSession struct {
	session  *drawing.Session
	lastUsed time.Time
}

type DrawingService struct {
	ctx     context.Context
	scenes  *SceneService
	emitter EventEmitter
	opts    DrawingOptions
	now     func() time.Time

	mu        sync.Mutex
	sessions  map[string]*liveSession
	publisher Publisher
	reaper    *cron.Cron
}

func NewDrawingService(ctx context.Context, scenes *SceneService, emitter EventEmitter, opts DrawingOptions) *DrawingService {
	if opts.Catalog == nil {
		opts.Catalog = drawing.MustCatalog(drawing.DefaultTokens, drawing.DefaultColors)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &DrawingService{
		ctx:      ctx,
		scenes:   scenes,
		emitter:  emitter,
		opts:     opts,
		now:      now,
		sessions: make(map[string]*liveSession),
	}
}

// SetPublisher attaches the feed. Nil detaches it.
func (s *DrawingService) SetPublisher(p Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
}

func (s *DrawingService) Catalog() *drawing.Catalog {
	return s.opts.Catalog
}

// ── Session registry ───────────────────────────────────────

// Open returns the card's live session, creating it from the stored drawing
// if needed. An existing session adopts the requested read-only flag.
func (s *DrawingService) Open(cardID string, readOnly bool) (*drawing.Session, error) {
	s.mu.Lock()
	if live, ok := s.sessions[cardID]; ok {
		live.lastUsed = s.now()
		s.mu.Unlock()
		live.session.SetReadOnly(readOnly)
		return live.session, nil
	}
	s.mu.Unlock()

	objects, err := s.scenes.LoadDrawing(cardID)
	if err != nil {
		return nil, fmt.Errorf("open drawing: %w", err)
	}
	session := drawing.NewSession(drawing.Config{
		Catalog:   s.opts.Catalog,
		Objects:   objects,
		ReadOnly:  readOnly,
		Reconcile: s.opts.Reconcile,
		Debounce:  s.opts.Debounce,
		AfterFunc: s.opts.AfterFunc,
		OnChange: func(objects []domain.DrawObject) error {
			return s.commit(cardID, objects)
		},
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	// lost a race with another Open for the same card
	if live, ok := s.sessions[cardID]; ok {
		session.Close()
		live.lastUsed = s.now()
		return live.session, nil
	}
	s.sessions[cardID] = &liveSession{session: session, lastUsed: s.now()}
	log.Printf("[DRAW] opened card %s (%d objects, readOnly=%v)", cardID, len(objects), readOnly)
	return session, nil
}

// Session returns the live session of a card.
func (s *DrawingService) Session(cardID string) (*drawing.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live, ok := s.sessions[cardID]
	if !ok {
		return nil, fmt.Errorf("card %s: %w", cardID, ErrSessionNotOpen)
	}
	live.lastUsed = s.now()
	return live.session, nil
}

// OpenCards lists the cards with a live session, sorted.
func (s *DrawingService) OpenCards() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Commit delivers the card's pending change now instead of waiting for the
// debounce window. It reports whether anything was pending. A failed save
// is returned and stays pending in the session.
func (s *DrawingService) Commit(cardID string) (bool, error) {
	session, err := s.Session(cardID)
	if err != nil {
		return false, err
	}
	return session.Flush()
}

// Close commits pending changes and drops the card's session. If the save
// fails the session stays open with its work and the error is returned.
func (s *DrawingService) Close(cardID string) error {
	session, err := s.Session(cardID)
	if err != nil {
		return err
	}
	if _, err := session.Flush(); err != nil {
		return fmt.Errorf("close card %s: %w", cardID, err)
	}

	s.mu.Lock()
	if live, ok := s.sessions[cardID]; ok && live.session == session {
		delete(s.sessions, cardID)
	}
	s.mu.Unlock()
	session.Close()
	log.Printf("[DRAW] closed card %s", cardID)
	return nil
}

// CloseAll closes every session. Called on shutdown so pending drawings
// reach the store.
func (s *DrawingService) CloseAll() {
	for _, id := range s.OpenCards() {
		if err := s.Close(id); err != nil {
			log.Printf("[DRAW] %v", err)
		}
	}
}

// Refresh reloads the card's drawing from the store and offers it to the
// live session. It reports whether the session replaced its objects.
func (s *DrawingService) Refresh(cardID string) (bool, error) {
	session, err := s.Session(cardID)
	if err != nil {
		return false, err
	}
	objects, err := s.scenes.LoadDrawing(cardID)
	if err != nil {
		return false, fmt.Errorf("refresh drawing: %w", err)
	}
	return session.Sync(objects), nil
}

// commit is the debounced change callback of every session.
func (s *DrawingService) commit(cardID string, objects []domain.DrawObject) error {
	if err := s.scenes.SaveDrawing(cardID, objects); err != nil {
		log.Printf("[DRAW] save card %s: %v", cardID, err)
		return fmt.Errorf("save card %s: %w", cardID, err)
	}
	s.emitter.Emit(s.ctx, EventDrawingChanged, DrawingChange{CardID: cardID, Objects: objects})

	s.mu.Lock()
	p := s.publisher
	s.mu.Unlock()
	if p != nil {
		p.Publish(cardID, objects)
	}
	return nil
}

// ── Idle reaper ────────────────────────────────────────────

// StartReaper closes sessions that were not used for longer than idle, on
// the given cron schedule. Sessions in the middle of a gesture are kept.
func (s *DrawingService) StartReaper(spec string, idle time.Duration) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() { s.Reap(idle) }); err != nil {
		return fmt.Errorf("reaper schedule %q: %w", spec, err)
	}
	s.mu.Lock()
	if s.reaper != nil {
		s.reaper.Stop()
	}
	s.reaper = c
	s.mu.Unlock()
	c.Start()
	log.Printf("[DRAW] reaper started (%s, idle %v)", spec, idle)
	return nil
}

func (s *DrawingService) StopReaper() {
	s.mu.Lock()
	c := s.reaper
	s.reaper = nil
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// Reap closes idle sessions and returns the closed card ids.
func (s *DrawingService) Reap(idle time.Duration) []string {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	var stale []string
	for id, live := range s.sessions {
		if live.lastUsed.Before(cutoff) && !live.session.IsDrawing() {
			stale = append(stale, id)
		}
	}
	s.mu.Unlock()

	sort.Strings(stale)
	for _, id := range stale {
		if err := s.Close(id); err != nil {
			log.Printf("[DRAW] reap: %v", err)
		}
	}
	if len(stale) > 0 {
		log.Printf("[DRAW] reaped %d idle session(s)", len(stale))
	}
	return stale
}
