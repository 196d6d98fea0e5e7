package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerNavigationTools() {
	// ── list_scenes ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_scenes",
		mcp.WithDescription("List all scenes"),
	), s.handleListScenes)

	// ── list_cards ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_cards",
		mcp.WithDescription("List the index cards of a scene, in order"),
		mcp.WithString("sceneId",
			mcp.Description("ID of the scene"),
			mcp.Required(),
		),
	), s.handleListCards)

	// ── create_card ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_card",
		mcp.WithDescription("Append a new index card to a scene and make it the active card"),
		mcp.WithString("sceneId",
			mcp.Description("ID of the scene"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("Card title"),
			mcp.Required(),
		),
		mcp.WithString("content",
			mcp.Description("Card body text (optional)"),
		),
	), s.handleCreateCard)

	// ── set_active_card ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_card",
		mcp.WithDescription("Set the active card for subsequent tool calls. Tools that accept cardId will default to this."),
		mcp.WithString("cardId",
			mcp.Description("ID of the card to make active"),
			mcp.Required(),
		),
	), s.handleSetActiveCard)
}

func (s *Server) handleListScenes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scenes, err := s.scenes.ListScenes()
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	return jsonResult(scenes)
}

func (s *Server) handleListCards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sceneID := req.GetString("sceneId", "")
	if sceneID == "" {
		return nil, fmt.Errorf("sceneId is required")
	}
	cards, err := s.scenes.ListCards(sceneID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	type cardSummary struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Order int    `json:"order"`
	}
	summaries := make([]cardSummary, len(cards))
	for i, c := range cards {
		summaries[i] = cardSummary{ID: c.ID, Title: c.Title, Order: c.Order}
	}
	return jsonResult(summaries)
}

func (s *Server) handleCreateCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sceneID := req.GetString("sceneId", "")
	title := req.GetString("title", "")
	if sceneID == "" || title == "" {
		return nil, fmt.Errorf("sceneId and title are required")
	}
	card, err := s.scenes.CreateCard(ctx, sceneID, title, req.GetString("content", ""))
	if err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}
	s.setActiveCard(card.ID)
	return jsonResult(card)
}

func (s *Server) handleSetActiveCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := req.GetString("cardId", "")
	if cardID == "" {
		return nil, fmt.Errorf("cardId is required")
	}
	if _, err := s.scenes.GetCard(cardID); err != nil {
		return nil, fmt.Errorf("set active card: %w", err)
	}
	s.setActiveCard(cardID)
	s.emitter.Emit(ctx, "mcp:active-card", map[string]string{"cardId": cardID})
	return textResult(fmt.Sprintf("Active card set to %s", cardID)), nil
}
