package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"scenecards/internal/domain"
	"scenecards/internal/drawing"
	"scenecards/internal/service"
	"scenecards/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────

type testServer struct {
	*Server
	emitter *service.MockEmitter
	card    *domain.Card
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "scenecards.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	emitter := &service.MockEmitter{}
	scenes := service.NewSceneService(storage.NewSceneStore(db), emitter)
	// long window: only explicit commits reach the store
	drawings := service.NewDrawingService(context.Background(), scenes, emitter, service.DrawingOptions{
		Debounce: time.Hour,
	})
	t.Cleanup(drawings.CloseAll)

	scene, err := scenes.CreateScene("Goblin Ambush")
	if err != nil {
		t.Fatalf("create scene: %v", err)
	}
	card, err := scenes.CreateCard(context.Background(), scene.ID, "Forest Road", "")
	if err != nil {
		t.Fatalf("create card: %v", err)
	}

	s := New(Deps{Emitter: emitter, Scenes: scenes, Drawings: drawings})
	return &testServer{Server: s, emitter: emitter, card: card}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("expected tool result content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", res.Content[0])
	}
	return text.Text
}

func decodeDrawing(t *testing.T, res *mcp.CallToolResult) drawingResult {
	t.Helper()
	var out drawingResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return out
}

func (ts *testServer) stored(t *testing.T) []domain.DrawObject {
	t.Helper()
	objects, err := ts.scenes.LoadDrawing(ts.card.ID)
	if err != nil {
		t.Fatalf("load drawing: %v", err)
	}
	return objects
}

// ─────────────────────────────────────────────────────────────
// navigation
// ─────────────────────────────────────────────────────────────

func TestResolveCardID_NoActiveCard(t *testing.T) {
	ts := newTestServer(t)
	if _, err := ts.resolveCardID(map[string]any{}); err == nil {
		t.Fatal("expected error without cardId or active card")
	}
	id, err := ts.resolveCardID(map[string]any{"cardId": "explicit"})
	if err != nil || id != "explicit" {
		t.Errorf("expected explicit id, got %q (%v)", id, err)
	}
}

func TestSetActiveCard(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	if _, err := ts.handleSetActiveCard(ctx, callRequest("set_active_card", map[string]any{"cardId": "missing"})); err == nil {
		t.Fatal("expected error for unknown card")
	}
	if _, err := ts.handleSetActiveCard(ctx, callRequest("set_active_card", map[string]any{"cardId": ts.card.ID})); err != nil {
		t.Fatalf("set active card: %v", err)
	}
	id, err := ts.resolveCardID(map[string]any{})
	if err != nil || id != ts.card.ID {
		t.Errorf("expected active card %s, got %q (%v)", ts.card.ID, id, err)
	}
	if len(ts.emitter.Named("mcp:active-card")) != 1 {
		t.Errorf("expected one mcp:active-card event, got %d", len(ts.emitter.Named("mcp:active-card")))
	}
}

func TestCreateCard_BecomesActive(t *testing.T) {
	ts := newTestServer(t)
	res, err := ts.handleCreateCard(context.Background(), callRequest("create_card", map[string]any{
		"sceneId": ts.card.SceneID,
		"title":   "Cave Mouth",
	}))
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	var card domain.Card
	if err := json.Unmarshal([]byte(resultText(t, res)), &card); err != nil {
		t.Fatalf("decode card: %v", err)
	}
	if id, _ := ts.resolveCardID(map[string]any{}); id != card.ID {
		t.Errorf("expected active card %s, got %s", card.ID, id)
	}
}

// ─────────────────────────────────────────────────────────────
// drawing tools
// ─────────────────────────────────────────────────────────────

func TestDrawLine_Persists(t *testing.T) {
	ts := newTestServer(t)
	res, err := ts.handleDrawLine(context.Background(), callRequest("draw_line", map[string]any{
		"cardId": ts.card.ID,
		"points": "[[10,10],[20,30],[40,40]]",
		"color":  "#e53935",
	}))
	if err != nil {
		t.Fatalf("draw_line: %v", err)
	}
	out := decodeDrawing(t, res)
	if out.Count != 1 || out.Index == nil || *out.Index != 0 {
		t.Fatalf("expected first object at index 0, got %+v", out)
	}

	stored := ts.stored(t)
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored object, got %d", len(stored))
	}
	line, ok := stored[0].(domain.LineObject)
	if !ok {
		t.Fatalf("expected LineObject, got %T", stored[0])
	}
	if len(line.Points) != 3 || line.Color != "#e53935" {
		t.Errorf("expected 3 red points, got %d %s", len(line.Points), line.Color)
	}
	if line.Points[1] != (domain.Point{X: 20, Y: 30}) {
		t.Errorf("expected second point (20,30), got %+v", line.Points[1])
	}
}

func TestDrawLine_BadPoints(t *testing.T) {
	ts := newTestServer(t)
	for _, points := range []string{"", "[]", "[[1,2],", `{"x":1}`} {
		_, err := ts.handleDrawLine(context.Background(), callRequest("draw_line", map[string]any{
			"cardId": ts.card.ID,
			"points": points,
		}))
		if err == nil {
			t.Errorf("expected error for points %q", points)
		}
	}
}

func TestDrawRectangle_KeepsCorners(t *testing.T) {
	ts := newTestServer(t)
	handler := ts.handleDrawShape(drawing.ToolRectangle)
	_, err := handler(context.Background(), callRequest("draw_rectangle", map[string]any{
		"cardId": ts.card.ID,
		"x1":     60.0,
		"y1":     50.0,
		"x2":     20.0,
		"y2":     10.0,
	}))
	if err != nil {
		t.Fatalf("draw_rectangle: %v", err)
	}
	rect, ok := ts.stored(t)[0].(domain.RectangleObject)
	if !ok {
		t.Fatalf("expected RectangleObject, got %T", ts.stored(t)[0])
	}
	want := domain.Form{Start: domain.Point{X: 60, Y: 50}, End: domain.Point{X: 20, Y: 10}}
	if rect.Form != want {
		t.Errorf("expected %+v, got %+v", want, rect.Form)
	}
}

func TestPlaceToken_Cycles(t *testing.T) {
	ts := newTestServer(t)
	catalog := ts.drawings.Catalog()

	for i := 0; i < 2; i++ {
		_, err := ts.handlePlaceToken(context.Background(), callRequest("place_token", map[string]any{
			"cardId": ts.card.ID,
			"x":      float64(10 * (i + 1)),
			"y":      50.0,
		}))
		if err != nil {
			t.Fatalf("place_token %d: %v", i, err)
		}
	}

	stored := ts.stored(t)
	if len(stored) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(stored))
	}
	for i, obj := range stored {
		tok, ok := obj.(domain.TokenObject)
		if !ok {
			t.Fatalf("expected TokenObject, got %T", obj)
		}
		wantToken, wantColor := catalog.At(i)
		if tok.Token != wantToken || tok.Color != wantColor {
			t.Errorf("token %d: expected %s/%s, got %s/%s", i, wantToken, wantColor, tok.Token, tok.Color)
		}
	}
}

func TestMoveDrawingObject(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	if _, err := ts.handlePlaceToken(ctx, callRequest("place_token", map[string]any{
		"cardId": ts.card.ID, "x": 10.0, "y": 20.0,
	})); err != nil {
		t.Fatalf("place_token: %v", err)
	}

	if _, err := ts.handleMoveDrawingObject(ctx, callRequest("move_drawing_object", map[string]any{
		"cardId": ts.card.ID, "index": 0.0, "dx": 5.0, "dy": -10.0,
	})); err != nil {
		t.Fatalf("move: %v", err)
	}
	tok := ts.stored(t)[0].(domain.TokenObject)
	if tok.Point != (domain.Point{X: 15, Y: 10}) {
		t.Errorf("expected (15,10), got %+v", tok.Point)
	}

	_, err := ts.handleMoveDrawingObject(ctx, callRequest("move_drawing_object", map[string]any{
		"cardId": ts.card.ID, "index": 3.0, "dx": 1.0, "dy": 1.0,
	}))
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected out of range error, got %v", err)
	}
}

func TestRemoveUndoClear(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	for _, x := range []float64{10, 20, 30} {
		if _, err := ts.handlePlaceToken(ctx, callRequest("place_token", map[string]any{
			"cardId": ts.card.ID, "x": x, "y": 50.0,
		})); err != nil {
			t.Fatalf("place_token: %v", err)
		}
	}

	if _, err := ts.handleRemoveDrawingObject(ctx, callRequest("remove_drawing_object", map[string]any{
		"cardId": ts.card.ID, "index": 1.0,
	})); err != nil {
		t.Fatalf("remove: %v", err)
	}
	stored := ts.stored(t)
	if len(stored) != 2 || stored[1].(domain.TokenObject).Point.X != 30 {
		t.Fatalf("expected tokens at x=10 and x=30, got %+v", stored)
	}

	if _, err := ts.handleRemoveDrawingObject(ctx, callRequest("remove_drawing_object", map[string]any{
		"cardId": ts.card.ID, "index": -1.0,
	})); err == nil {
		t.Error("expected error for negative index")
	}

	if _, err := ts.handleUndoDrawing(ctx, callRequest("undo_drawing", map[string]any{"cardId": ts.card.ID})); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if n := len(ts.stored(t)); n != 1 {
		t.Errorf("expected 1 object after undo, got %d", n)
	}

	if _, err := ts.handleClearDrawing(ctx, callRequest("clear_drawing", map[string]any{"cardId": ts.card.ID})); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n := len(ts.stored(t)); n != 0 {
		t.Errorf("expected empty drawing after clear, got %d", n)
	}
	session, err := ts.drawings.Session(ts.card.ID)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if session.TokenIndex() != 0 {
		t.Errorf("expected token cycle reset, got %d", session.TokenIndex())
	}
}

func TestListDrawingObjects_SeesExternalWrite(t *testing.T) {
	ts := newTestServer(t)
	req := callRequest("list_drawing_objects", map[string]any{"cardId": ts.card.ID})

	if out := decodeDrawing(t, mustCall(t, ts.handleListDrawingObjects, req)); out.Count != 0 {
		t.Fatalf("expected empty card, got %d", out.Count)
	}

	// another process writes the card
	external := []domain.DrawObject{
		domain.EllipseObject{Color: "#000000", Form: domain.Form{End: domain.Point{X: 50, Y: 50}}},
	}
	if err := ts.scenes.SaveDrawing(ts.card.ID, external); err != nil {
		t.Fatalf("save: %v", err)
	}

	out := decodeDrawing(t, mustCall(t, ts.handleListDrawingObjects, req))
	if out.Count != 1 {
		t.Fatalf("expected 1 object after external write, got %d", out.Count)
	}
	if _, ok := out.Objects[0].(domain.EllipseObject); !ok {
		t.Errorf("expected EllipseObject, got %T", out.Objects[0])
	}
}

func TestSetDrawingColor_AppliesToNextShape(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	if _, err := ts.handleSetDrawingColor(ctx, callRequest("set_drawing_color", map[string]any{
		"cardId": ts.card.ID, "color": "#3949ab",
	})); err != nil {
		t.Fatalf("set color: %v", err)
	}
	handler := ts.handleDrawShape(drawing.ToolEllipse)
	if _, err := handler(ctx, callRequest("draw_ellipse", map[string]any{
		"cardId": ts.card.ID, "x1": 1.0, "y1": 1.0, "x2": 9.0, "y2": 9.0,
	})); err != nil {
		t.Fatalf("draw_ellipse: %v", err)
	}
	if c := ts.stored(t)[0].ObjectColor(); c != "#3949ab" {
		t.Errorf("expected #3949ab, got %s", c)
	}
}

func mustCall(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("%s: %v", req.Params.Name, err)
	}
	return res
}

// ─────────────────────────────────────────────────────────────
// resources
// ─────────────────────────────────────────────────────────────

func TestExtractCardIDFromURI(t *testing.T) {
	cases := map[string]string{
		"scenecards://card/abc/drawing":  "abc",
		"scenecards://card//drawing":     "",
		"scenecards://card/a/b/drawing":  "",
		"scenecards://scene/abc/drawing": "",
		"scenecards://card/abc":          "",
	}
	for uri, want := range cases {
		if got := extractCardIDFromURI(uri); got != want {
			t.Errorf("%s: expected %q, got %q", uri, want, got)
		}
	}
}

func TestCardDrawingResource(t *testing.T) {
	ts := newTestServer(t)
	objects := []domain.DrawObject{domain.TokenObject{Color: "#fff", Token: "star", Point: domain.Point{X: 1, Y: 2}}}
	if err := ts.scenes.SaveDrawing(ts.card.ID, objects); err != nil {
		t.Fatalf("save: %v", err)
	}

	var req mcp.ReadResourceRequest
	req.Params.URI = cardURIPrefix + ts.card.ID + cardDrawingSuffix
	contents, err := ts.handleCardDrawingResource(context.Background(), req)
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, `"token": "star"`) || !strings.Contains(text, ts.card.Title) {
		t.Errorf("unexpected resource body: %s", text)
	}
}
