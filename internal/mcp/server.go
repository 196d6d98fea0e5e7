package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"scenecards/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// EventEmitter is the subset of service.EventEmitter the server needs.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Server is the MCP server for scenecards.
// It exposes tools, resources and prompts so AI agents can read scenes and
// sketch on index cards.
type Server struct {
	mcp     *server.MCPServer
	emitter EventEmitter

	scenes   *service.SceneService
	drawings *service.DrawingService

	// Active card context (set by set_active_card / create_card)
	mu           sync.Mutex
	activeCardID string
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter  EventEmitter
	Scenes   *service.SceneService
	Drawings *service.DrawingService
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		emitter:  deps.Emitter,
		scenes:   deps.Scenes,
		drawings: deps.Drawings,
	}

	s.mcp = server.NewMCPServer(
		"scenecards-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerNavigationTools()
	s.registerDrawingTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func (s *Server) setActiveCard(cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeCardID = cardID
}

// resolveCardID returns the cardId from tool args or falls back to the
// active card.
func (s *Server) resolveCardID(args map[string]any) (string, error) {
	if cid, ok := args["cardId"].(string); ok && cid != "" {
		return cid, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeCardID != "" {
		return s.activeCardID, nil
	}
	return "", fmt.Errorf("no cardId provided and no active card set (use set_active_card first)")
}
