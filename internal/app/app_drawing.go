package app

// ─────────────────────────────────────────────────────────────
// Drawing Handlers — card drawing surface
// ─────────────────────────────────────────────────────────────
//
// The frontend forwards raw pointer events; the session owns the object
// list and persists it through its debounced change callback. Every
// handler returns the resulting view so the surface can re-render.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"scenecards/internal/domain"
	"scenecards/internal/drawing"
	"scenecards/internal/export"
	"scenecards/internal/service"
)

// DrawingCatalog lists the token icons and picker colors, index-aligned.
type DrawingCatalog struct {
	Tokens []string `json:"tokens"`
	Colors []string `json:"colors"`
}

func (a *App) GetDrawingCatalog() DrawingCatalog {
	c := a.drawings.Catalog()
	return DrawingCatalog{Tokens: c.Tokens(), Colors: c.Colors()}
}

// ── Session lifecycle ──────────────────────────────────────

// OpenCardDrawing opens (or re-attaches to) the card's drawing session with
// the surface's current bounding rectangle.
func (a *App) OpenCardDrawing(cardID string, readOnly bool, bounds drawing.Bounds) (drawing.View, error) {
	session, err := a.drawings.Open(cardID, readOnly)
	if err != nil {
		return drawing.View{}, err
	}
	session.SetBounds(bounds)
	return session.View(), nil
}

// SetSurfaceBounds updates the bounding rectangle after a resize or scroll.
// Zero width or height marks the surface as unmounted.
func (a *App) SetSurfaceBounds(cardID string, bounds drawing.Bounds) error {
	session, err := a.drawings.Session(cardID)
	if err != nil {
		return err
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		session.ClearBounds()
		return nil
	}
	session.SetBounds(bounds)
	return nil
}

// CloseCardDrawing commits pending changes and releases the session.
func (a *App) CloseCardDrawing(cardID string) error {
	return a.drawings.Close(cardID)
}

func (a *App) GetDrawingView(cardID string) (drawing.View, error) {
	return a.withSession(cardID, func(*drawing.Session) {})
}

// ── Pointer input ──────────────────────────────────────────

func (a *App) StartDrawing(cardID string, ev drawing.PointerEvent) (drawing.View, error) {
	return a.withSession(cardID, func(s *drawing.Session) { s.StartDrawing(ev) })
}

func (a *App) ContinueDrawing(cardID string, ev drawing.PointerEvent) (drawing.View, error) {
	return a.withSession(cardID, func(s *drawing.Session) { s.Drawing(ev) })
}

func (a *App) StopDrawing(cardID string, ev drawing.PointerEvent) (drawing.View, error) {
	return a.withSession(cardID, func(s *drawing.Session) { s.StopDrawing(ev) })
}

// BlurDrawing ends any gesture when the surface loses focus.
func (a *App) BlurDrawing(cardID string) (drawing.View, error) {
	return a.withSession(cardID, func(s *drawing.Session) { s.Blur() })
}

// ── Object edits ───────────────────────────────────────────

// MoveDrawingObject translates object index by the distance between the
// drag start and the current pointer position.
func (a *App) MoveDrawingObject(cardID string, index int, start, move drawing.PointerEvent) (drawing.View, error) {
	return a.withSession(cardID, func(s *drawing.Session) { s.MoveObject(index, start, move) })
}

func (a *App) RemoveDrawingObject(cardID string, index int) (drawing.View, error) {
	return a.withSession(cardID, func(s *drawing.Session) { s.RemoveObject(index) })
}

func (a *App) ClearDrawing(cardID string) (drawing.View, error) {
	return a.withSession(cardID, func(s *drawing.Session) { s.Clear() })
}

func (a *App) UndoDrawing(cardID string) (drawing.View, error) {
	return a.withSession(cardID, func(s *drawing.Session) { s.Undo() })
}

// ── Tool state ─────────────────────────────────────────────

func (a *App) SetDrawingTool(cardID, tool string) (drawing.View, error) {
	t, err := drawing.ParseTool(tool)
	if err != nil {
		return drawing.View{}, err
	}
	return a.withSession(cardID, func(s *drawing.Session) { s.SetTool(t) })
}

func (a *App) SetDrawingColor(cardID, color string) (drawing.View, error) {
	return a.withSession(cardID, func(s *drawing.Session) { s.SetColor(color) })
}

func (a *App) withSession(cardID string, fn func(*drawing.Session)) (drawing.View, error) {
	session, err := a.drawings.Session(cardID)
	if err != nil {
		return drawing.View{}, err
	}
	fn(session)
	return session.View(), nil
}

// ── Export ─────────────────────────────────────────────────

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// ExportCardPDF writes the card's drawing to the export directory and
// returns the file path. An open session is committed first so the export
// matches the surface.
func (a *App) ExportCardPDF(cardID string) (string, error) {
	if _, err := a.drawings.Commit(cardID); errors.Is(err, service.ErrSessionNotOpen) {
		wailsRuntime.LogInfof(a.ctx, "[EXPORT] card %s has no open session, exporting stored drawing", cardID)
	} else if err != nil {
		return "", err
	}
	state, err := a.scenes.GetCardState(cardID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(a.cfg.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(a.cfg.ExportDir, exportFileName(state.Card))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := export.WriteCardPDF(f, state.Card.Title, state.Objects); err != nil {
		return "", fmt.Errorf("export card %s: %w", cardID, err)
	}
	wailsRuntime.LogInfof(a.ctx, "[EXPORT] wrote %s", path)
	return path, nil
}

func exportFileName(card domain.Card) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(card.Title, "-"), "-")
	if name == "" {
		name = "card"
	}
	short := card.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s-%s.pdf", strings.ToLower(name), short)
}
