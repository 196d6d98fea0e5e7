package drawing

import (
	"sync"
	"time"

	"scenecards/internal/domain"
)

// Reconcile selects how Sync decides that an externally supplied object
// list should replace the local one.
type Reconcile int

const (
	// ReconcileContent replaces on any length or content difference, except
	// when the incoming list is the one this session last committed.
	ReconcileContent Reconcile = iota
	// ReconcileLength replaces only when the lengths differ. Same-length
	// external edits go unnoticed.
	ReconcileLength
)

// Config configures a Session.
type Config struct {
	Catalog   *Catalog
	Objects   []domain.DrawObject
	ReadOnly  bool
	Reconcile Reconcile
	// Debounce is the quiet period before OnChange fires. Zero means
	// DefaultDebounce.
	Debounce time.Duration
	// OnChange receives the full object list once changes settle. On error
	// the list is not considered committed and delivery is retried after
	// another quiet period.
	OnChange func(objects []domain.DrawObject) error
	// AfterFunc overrides the debounce timer, for tests.
	AfterFunc AfterFunc
}

// View is a read-only snapshot of a session for the frontend.
type View struct {
	Objects    domain.DrawAreaObjects `json:"objects"`
	Tool       string                 `json:"tool"`
	Color      string                 `json:"color"`
	TokenIndex int                    `json:"tokenIndex"`
	IsDrawing  bool                   `json:"isDrawing"`
	ReadOnly   bool                   `json:"readOnly"`
}

// Session owns the object list of one drawing surface and turns pointer
// input into object changes. Local changes are reported through OnChange,
// debounced.
type Session struct {
	mu        sync.Mutex
	objects   []domain.DrawObject
	active    int // index of the object being drawn, -1 when idle
	tools     *ToolState
	bounds    *Bounds
	readOnly  bool
	reconcile Reconcile
	onChange  func([]domain.DrawObject) error
	debounce  *Debouncer
	committed string // fingerprint of the last list OnChange accepted or synced in
	lastErr   error  // result of the most recent OnChange
	closed    bool
}

// NewSession creates a session seeded with cfg.Objects. A nil catalog uses
// the built-in one.
func NewSession(cfg Config) *Session {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = MustCatalog(DefaultTokens, DefaultColors)
	}
	window := cfg.Debounce
	if window <= 0 {
		window = DefaultDebounce
	}
	objects := domain.CloneObjects(cfg.Objects)
	return &Session{
		objects:   objects,
		active:    -1,
		tools:     NewToolState(catalog),
		readOnly:  cfg.ReadOnly,
		reconcile: cfg.Reconcile,
		onChange:  cfg.OnChange,
		debounce:  NewDebouncer(window, cfg.AfterFunc),
		committed: domain.Fingerprint(objects),
	}
}

// ── Surface ────────────────────────────────────────────────

// SetBounds records the surface rectangle used to map pointer events.
func (s *Session) SetBounds(b Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds = &b
}

// ClearBounds marks the surface as unmounted; pointer events then map to
// the origin.
func (s *Session) ClearBounds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds = nil
}

// ── Pointer handlers ───────────────────────────────────────

// StartDrawing begins a gesture with the active tool. Only the primary
// button on a writable surface starts one.
func (s *Session) StartDrawing(ev PointerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.readOnly || ev.Button != 0 {
		return
	}
	o, ok := s.tools.Begin(ToSurfaceRelative(ev, s.bounds))
	if !ok {
		return
	}
	s.objects = append(s.objects, o)
	s.active = len(s.objects) - 1
	s.changed()
}

// Drawing extends the in-progress object to the pointer position.
func (s *Session) Drawing(ev PointerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.readOnly || !s.tools.IsDrawing() || s.active < 0 {
		return
	}
	p := ToSurfaceRelative(ev, s.bounds)
	switch current := s.objects[s.active].(type) {
	case domain.TokenObject:
		return
	case domain.LineObject:
		// the session owns the path; callers only ever see clones
		current.Points = append(current.Points, p)
		s.objects[s.active] = current
	default:
		s.objects[s.active] = Extend(current, p)
	}
	s.changed()
}

// StopDrawing ends the gesture on a mouse release. Touch and pen releases
// are ignored; those gestures end on the next mouse release or Blur.
func (s *Session) StopDrawing(ev PointerEvent) {
	if ev.PointerType != PointerMouse {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopGesture()
}

// Blur force-stops a gesture when the surface loses focus.
func (s *Session) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tools.IsDrawing() {
		s.stopGesture()
	}
}

// ── Object operations ──────────────────────────────────────

// MoveObject translates the object at index by the distance between two
// pointer events. An invalid index is ignored.
func (s *Session) MoveObject(index int, start, move PointerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.readOnly || !s.valid(index) {
		return
	}
	from := ToSurfaceRelative(start, s.bounds)
	to := ToSurfaceRelative(move, s.bounds)
	s.objects[index] = Move(s.objects[index], to.X-from.X, to.Y-from.Y)
	s.changed()
}

// MoveObjectBy translates the object at index by a delta already expressed
// in surface percent.
func (s *Session) MoveObjectBy(index int, dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.readOnly || !s.valid(index) {
		return
	}
	s.objects[index] = Move(s.objects[index], dx, dy)
	s.changed()
}

// RemoveObject deletes the object at index, keeping the order of the rest.
func (s *Session) RemoveObject(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.readOnly || !s.valid(index) {
		return
	}
	switch {
	case index == s.active:
		s.stopGesture()
	case index < s.active:
		s.active--
	}
	objects := make([]domain.DrawObject, 0, len(s.objects)-1)
	objects = append(objects, s.objects[:index]...)
	s.objects = append(objects, s.objects[index+1:]...)
	s.changed()
}

// Clear removes every object and rewinds the token cycle.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.readOnly {
		return
	}
	s.stopGesture()
	s.objects = []domain.DrawObject{}
	s.tools.ResetTokens()
	s.changed()
}

// Undo removes the most recently added object. Only one level: there is no
// redo and no history beyond the list itself.
func (s *Session) Undo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.readOnly || len(s.objects) == 0 {
		return
	}
	last := len(s.objects) - 1
	if s.active == last {
		s.stopGesture()
	}
	s.objects = append([]domain.DrawObject(nil), s.objects[:last]...)
	s.changed()
}

// ── External sync ──────────────────────────────────────────

// Sync offers an externally supplied object list. It reports whether the
// local list was replaced. Replacing aborts any gesture and drops the
// pending notification; inbound lists are never echoed back to OnChange.
func (s *Session) Sync(objects []domain.DrawObject) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	incoming := domain.Fingerprint(objects)
	switch s.reconcile {
	case ReconcileLength:
		if len(objects) == len(s.objects) {
			return false
		}
	default:
		if incoming == s.committed || incoming == domain.Fingerprint(s.objects) {
			return false
		}
	}
	s.stopGesture()
	s.objects = domain.CloneObjects(objects)
	s.committed = incoming
	s.debounce.Stop()
	return true
}

// ── Tool selection ─────────────────────────────────────────

func (s *Session) SetTool(t DrawingTool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools.SetTool(t)
}

func (s *Session) Tool() DrawingTool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools.Tool()
}

func (s *Session) SetColor(color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools.SetColor(color)
}

func (s *Session) Color() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools.Color()
}

func (s *Session) TokenIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools.TokenIndex()
}

func (s *Session) IsDrawing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools.IsDrawing()
}

// InProgress returns the index of the object being drawn.
func (s *Session) InProgress() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.active >= 0
}

func (s *Session) SetReadOnly(readOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly = readOnly
	if readOnly {
		s.stopGesture()
	}
}

func (s *Session) ReadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readOnly
}

// Catalog returns the token catalog the session cycles through.
func (s *Session) Catalog() *Catalog {
	return s.tools.Catalog()
}

// Objects returns a copy of the object list.
func (s *Session) Objects() []domain.DrawObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneObjects(s.objects)
}

// View returns a snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Objects:    domain.CloneObjects(s.objects),
		Tool:       s.tools.Tool().String(),
		Color:      s.tools.Color(),
		TokenIndex: s.tools.TokenIndex(),
		IsDrawing:  s.tools.IsDrawing(),
		ReadOnly:   s.readOnly,
	}
}

// ── Lifecycle ──────────────────────────────────────────────

// Pending reports whether a change notification is waiting for the quiet
// period to elapse.
func (s *Session) Pending() bool {
	return s.debounce.Pending()
}

// Flush delivers a pending notification immediately. It reports whether
// one was pending and the OnChange error, if delivery failed.
func (s *Session) Flush() (bool, error) {
	if !s.debounce.Flush() {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return true, s.lastErr
}

// Close cancels any pending notification and disables the session.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopGesture()
	s.mu.Unlock()
	s.debounce.Stop()
}

// ── internals (caller holds s.mu) ──────────────────────────

func (s *Session) valid(index int) bool {
	return index >= 0 && index < len(s.objects)
}

func (s *Session) stopGesture() {
	s.tools.Stop()
	s.active = -1
}

func (s *Session) changed() {
	s.debounce.Trigger(func() { s.notify() })
}

// notify hands a snapshot to OnChange. The snapshot only becomes the
// committed list once OnChange accepts it; a failed delivery is re-armed so
// the session keeps offering its work.
func (s *Session) notify() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	snapshot := domain.CloneObjects(s.objects)
	cb := s.onChange
	s.mu.Unlock()

	var err error
	if cb != nil {
		err = cb(snapshot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err != nil {
		if !s.closed {
			s.changed()
		}
		return err
	}
	s.committed = domain.Fingerprint(snapshot)
	return nil
}
