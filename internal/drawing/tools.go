package drawing

import (
	"fmt"
	"strings"

	"scenecards/internal/domain"
)

// DrawingTool is the active tool of a surface. ColorPicker, Move and Remove
// are modes that change how existing objects react to the pointer; the
// other tools start a new object on press.
type DrawingTool int

const (
	ToolColorPicker DrawingTool = iota
	ToolLine
	ToolMove
	ToolRemove
	ToolRectangle
	ToolEllipse
	ToolToken
)

var toolNames = map[DrawingTool]string{
	ToolColorPicker: "color-picker",
	ToolLine:        "line",
	ToolMove:        "move",
	ToolRemove:      "remove",
	ToolRectangle:   "rectangle",
	ToolEllipse:     "ellipse",
	ToolToken:       "token",
}

func (t DrawingTool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// Draws reports whether pressing with t creates an object.
func (t DrawingTool) Draws() bool {
	switch t {
	case ToolLine, ToolRectangle, ToolEllipse, ToolToken:
		return true
	}
	return false
}

// ParseTool maps a tool name (as returned by String) back to a DrawingTool.
func ParseTool(name string) (DrawingTool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range toolNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown drawing tool %q", name)
}

// DefaultColor is the stroke color of a fresh surface.
const DefaultColor = "#000000"

// ToolState is the tool state machine: Idle or Drawing, parameterized by
// the active tool, color and token cycle position.
type ToolState struct {
	catalog    *Catalog
	tool       DrawingTool
	color      string
	tokenIndex int
	drawing    bool
}

// NewToolState starts Idle with the line tool and the default color.
func NewToolState(catalog *Catalog) *ToolState {
	return &ToolState{catalog: catalog, tool: ToolLine, color: DefaultColor}
}

func (s *ToolState) Tool() DrawingTool     { return s.tool }
func (s *ToolState) SetTool(t DrawingTool) { s.tool = t }
func (s *ToolState) Color() string         { return s.color }
func (s *ToolState) SetColor(color string) { s.color = color }
func (s *ToolState) TokenIndex() int       { return s.tokenIndex }
func (s *ToolState) IsDrawing() bool       { return s.drawing }
func (s *ToolState) Catalog() *Catalog     { return s.catalog }

// Begin starts a gesture at p. For drawing tools it returns the new object
// and enters Drawing; for mode tools it returns false and stays Idle.
// Placing a token consumes the catalog entry at the cycle index and
// advances the index.
func (s *ToolState) Begin(p domain.Point) (domain.DrawObject, bool) {
	var o domain.DrawObject
	switch s.tool {
	case ToolLine:
		o = StartLine(s.color, p)
	case ToolRectangle:
		o = StartRectangle(s.color, p)
	case ToolEllipse:
		o = StartEllipse(s.color, p)
	case ToolToken:
		token, color := s.catalog.At(s.tokenIndex)
		s.tokenIndex = s.catalog.Next(s.tokenIndex)
		o = StartToken(color, token, p)
	default:
		return nil, false
	}
	s.drawing = true
	return o, true
}

// Stop returns to Idle.
func (s *ToolState) Stop() { s.drawing = false }

// ResetTokens rewinds the token cycle to the first catalog entry.
func (s *ToolState) ResetTokens() { s.tokenIndex = 0 }
