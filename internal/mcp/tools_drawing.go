package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scenecards/internal/domain"
	"scenecards/internal/drawing"
)

// agentSurface makes client coordinates equal surface percentages, so tool
// arguments are given in percent of the card.
var agentSurface = drawing.Bounds{Width: 100, Height: 100}

func (s *Server) registerDrawingTools() {
	s.mcp.AddTool(mcp.NewTool("list_drawing_objects",
		mcp.WithDescription("List the drawing objects on a card in z-order. The array position is the index used by move/remove."),
		mcp.WithString("cardId", mcp.Description("Card ID (optional, defaults to active card)")),
	), s.handleListDrawingObjects)

	s.mcp.AddTool(mcp.NewTool("draw_line",
		mcp.WithDescription("Draw a freehand line through the given points. Coordinates are percent of the card (0-100)."),
		mcp.WithString("cardId", mcp.Description("Card ID (optional, defaults to active card)")),
		mcp.WithString("points", mcp.Description("JSON array of [x, y] pairs, e.g. [[10,10],[40,20],[60,60]]"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Stroke color hex (optional, keeps the current color)")),
	), s.handleDrawLine)

	s.mcp.AddTool(mcp.NewTool("draw_rectangle",
		mcp.WithDescription("Draw a rectangle between two corners, in percent of the card"),
		mcp.WithString("cardId", mcp.Description("Card ID (optional, defaults to active card)")),
		mcp.WithNumber("x1", mcp.Description("First corner X"), mcp.Required()),
		mcp.WithNumber("y1", mcp.Description("First corner Y"), mcp.Required()),
		mcp.WithNumber("x2", mcp.Description("Opposite corner X"), mcp.Required()),
		mcp.WithNumber("y2", mcp.Description("Opposite corner Y"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Stroke color hex (optional)")),
	), s.handleDrawShape(drawing.ToolRectangle))

	s.mcp.AddTool(mcp.NewTool("draw_ellipse",
		mcp.WithDescription("Draw an ellipse inside the box between two corners, in percent of the card"),
		mcp.WithString("cardId", mcp.Description("Card ID (optional, defaults to active card)")),
		mcp.WithNumber("x1", mcp.Description("First corner X"), mcp.Required()),
		mcp.WithNumber("y1", mcp.Description("First corner Y"), mcp.Required()),
		mcp.WithNumber("x2", mcp.Description("Opposite corner X"), mcp.Required()),
		mcp.WithNumber("y2", mcp.Description("Opposite corner Y"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Stroke color hex (optional)")),
	), s.handleDrawShape(drawing.ToolEllipse))

	s.mcp.AddTool(mcp.NewTool("place_token",
		mcp.WithDescription("Place the next token of the catalog cycle at a point. Icon and color come from the cycle."),
		mcp.WithString("cardId", mcp.Description("Card ID (optional, defaults to active card)")),
		mcp.WithNumber("x", mcp.Description("X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Y position"), mcp.Required()),
	), s.handlePlaceToken)

	s.mcp.AddTool(mcp.NewTool("move_drawing_object",
		mcp.WithDescription("Translate a drawing object by a delta in percent of the card"),
		mcp.WithString("cardId", mcp.Description("Card ID (optional, defaults to active card)")),
		mcp.WithNumber("index", mcp.Description("Object index from list_drawing_objects"), mcp.Required()),
		mcp.WithNumber("dx", mcp.Description("Horizontal delta"), mcp.Required()),
		mcp.WithNumber("dy", mcp.Description("Vertical delta"), mcp.Required()),
	), s.handleMoveDrawingObject)

	s.mcp.AddTool(mcp.NewTool("remove_drawing_object",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove one drawing object by index. Later objects shift down by one."),
		mcp.WithString("cardId", mcp.Description("Card ID (optional, defaults to active card)")),
		mcp.WithNumber("index", mcp.Description("Object index from list_drawing_objects"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveDrawingObject)

	s.mcp.AddTool(mcp.NewTool("undo_drawing",
		mcp.WithDescription("Remove the most recently added drawing object"),
		mcp.WithString("cardId", mcp.Description("Card ID (optional, defaults to active card)")),
	), s.handleUndoDrawing)

	s.mcp.AddTool(mcp.NewTool("clear_drawing",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove every drawing object on a card and restart the token cycle"),
		mcp.WithString("cardId", mcp.Description("Card ID (optional, defaults to active card)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleClearDrawing)

	s.mcp.AddTool(mcp.NewTool("set_drawing_color",
		mcp.WithDescription("Set the stroke color used by later lines, rectangles and ellipses"),
		mcp.WithString("cardId", mcp.Description("Card ID (optional, defaults to active card)")),
		mcp.WithString("color", mcp.Description("Color hex, e.g. #e53935"), mcp.Required()),
	), s.handleSetDrawingColor)
}

func boolPtr(v bool) *bool { return &v }

// drawingResult is returned by every drawing tool.
type drawingResult struct {
	CardID  string                 `json:"cardId"`
	Index   *int                   `json:"index,omitempty"`
	Count   int                    `json:"count"`
	Objects domain.DrawAreaObjects `json:"objects,omitempty"`
}

// ── Session plumbing ───────────────────────────────────────

func pointerAt(p domain.Point) drawing.PointerEvent {
	return drawing.PointerEvent{ClientX: p.X, ClientY: p.Y, PointerType: drawing.PointerMouse}
}

// openSession resolves the card and returns its writable drawing session.
func (s *Server) openSession(req mcp.CallToolRequest) (string, *drawing.Session, error) {
	cardID, err := s.resolveCardID(req.GetArguments())
	if err != nil {
		return "", nil, err
	}
	session, err := s.drawings.Open(cardID, false)
	if err != nil {
		return "", nil, err
	}
	// the desktop app may have written since our last call
	if _, err := s.drawings.Refresh(cardID); err != nil {
		return "", nil, err
	}
	session.SetBounds(agentSurface)
	return cardID, session, nil
}

// gesture replays a press/drag/release with the given tool, then commits.
func (s *Server) gesture(req mcp.CallToolRequest, tool drawing.DrawingTool, color string, path []domain.Point) (*mcp.CallToolResult, error) {
	cardID, session, err := s.openSession(req)
	if err != nil {
		return nil, err
	}
	before := len(session.Objects())

	session.SetTool(tool)
	if color != "" {
		session.SetColor(color)
	}
	session.StartDrawing(pointerAt(path[0]))
	for _, p := range path[1:] {
		session.Drawing(pointerAt(p))
	}
	session.StopDrawing(pointerAt(path[len(path)-1]))

	objects := session.Objects()
	if len(objects) != before+1 {
		return nil, fmt.Errorf("card %s did not accept the drawing (read-only?)", cardID)
	}
	if _, err := s.drawings.Commit(cardID); err != nil {
		return nil, err
	}
	last := len(objects) - 1
	return jsonResult(drawingResult{
		CardID:  cardID,
		Index:   &last,
		Count:   len(objects),
		Objects: objects[last:],
	})
}

// commitEdit commits after a non-gesture edit and reports the new count.
func (s *Server) commitEdit(cardID string, session *drawing.Session) (*mcp.CallToolResult, error) {
	if _, err := s.drawings.Commit(cardID); err != nil {
		return nil, err
	}
	return jsonResult(drawingResult{CardID: cardID, Count: len(session.Objects())})
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListDrawingObjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, session, err := s.openSession(req)
	if err != nil {
		return nil, err
	}
	objects := session.Objects()
	return jsonResult(drawingResult{CardID: cardID, Count: len(objects), Objects: objects})
}

func (s *Server) handleDrawLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := parsePath(req.GetString("points", ""))
	if err != nil {
		return nil, err
	}
	return s.gesture(req, drawing.ToolLine, req.GetString("color", ""), path)
}

func (s *Server) handleDrawShape(tool drawing.DrawingTool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start, end, err := pointArgs(req.GetArguments())
		if err != nil {
			return nil, err
		}
		return s.gesture(req, tool, req.GetString("color", ""), []domain.Point{start, end})
	}
}

func (s *Server) handlePlaceToken(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	x, err := numberArg(args, "x")
	if err != nil {
		return nil, err
	}
	y, err := numberArg(args, "y")
	if err != nil {
		return nil, err
	}
	return s.gesture(req, drawing.ToolToken, "", []domain.Point{{X: x, Y: y}})
}

func (s *Server) handleMoveDrawingObject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	index, err := indexArg(args, "index")
	if err != nil {
		return nil, err
	}
	dx, err := numberArg(args, "dx")
	if err != nil {
		return nil, err
	}
	dy, err := numberArg(args, "dy")
	if err != nil {
		return nil, err
	}
	cardID, session, err := s.openSession(req)
	if err != nil {
		return nil, err
	}
	if n := len(session.Objects()); index >= n {
		return nil, fmt.Errorf("index %d out of range (card has %d objects)", index, n)
	}
	session.MoveObjectBy(index, dx, dy)
	return s.commitEdit(cardID, session)
}

func (s *Server) handleRemoveDrawingObject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := indexArg(req.GetArguments(), "index")
	if err != nil {
		return nil, err
	}
	cardID, session, err := s.openSession(req)
	if err != nil {
		return nil, err
	}
	if n := len(session.Objects()); index >= n {
		return nil, fmt.Errorf("index %d out of range (card has %d objects)", index, n)
	}
	session.RemoveObject(index)
	return s.commitEdit(cardID, session)
}

func (s *Server) handleUndoDrawing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, session, err := s.openSession(req)
	if err != nil {
		return nil, err
	}
	session.Undo()
	return s.commitEdit(cardID, session)
}

func (s *Server) handleClearDrawing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, session, err := s.openSession(req)
	if err != nil {
		return nil, err
	}
	session.Clear()
	return s.commitEdit(cardID, session)
}

func (s *Server) handleSetDrawingColor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	color := req.GetString("color", "")
	if color == "" {
		return nil, fmt.Errorf("color is required")
	}
	cardID, session, err := s.openSession(req)
	if err != nil {
		return nil, err
	}
	session.SetColor(color)
	return textResult(fmt.Sprintf("Drawing color on card %s set to %s", cardID, color)), nil
}
