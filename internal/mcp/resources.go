package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"scenecards/internal/domain"
)

const (
	scenesURI         = "scenecards://scenes"
	cardURIPrefix     = "scenecards://card/"
	cardDrawingSuffix = "/drawing"
)

func (s *Server) registerResources() {
	// ── scenecards://scenes ────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		scenesURI,
		"All Scenes",
		mcp.WithMIMEType("application/json"),
	), s.handleScenesResource)

	// ── scenecards://card/{cardId}/drawing ─────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			cardURIPrefix+"{cardId}"+cardDrawingSuffix,
			"Drawing on a Card",
		),
		s.handleCardDrawingResource,
	)
}

func (s *Server) handleScenesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	scenes, err := s.scenes.ListScenes()
	if err != nil {
		return nil, err
	}

	type sceneSummary struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Cards int    `json:"cards"`
	}

	summaries := make([]sceneSummary, 0, len(scenes))
	for _, sc := range scenes {
		cards, err := s.scenes.ListCards(sc.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sceneSummary{ID: sc.ID, Name: sc.Name, Cards: len(cards)})
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      scenesURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// handleCardDrawingResource returns the persisted drawing, not any
// uncommitted session state.
func (s *Server) handleCardDrawingResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	cardID := extractCardIDFromURI(uri)
	if cardID == "" {
		return nil, fmt.Errorf("could not extract cardId from URI: %s", uri)
	}

	state, err := s.scenes.GetCardState(cardID)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(struct {
		CardID  string                 `json:"cardId"`
		Title   string                 `json:"title"`
		Objects domain.DrawAreaObjects `json:"objects"`
	}{cardID, state.Card.Title, state.Objects}, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// extractCardIDFromURI extracts the card ID from
// "scenecards://card/{id}/drawing".
func extractCardIDFromURI(uri string) string {
	if !strings.HasPrefix(uri, cardURIPrefix) || !strings.HasSuffix(uri, cardDrawingSuffix) {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, cardURIPrefix), cardDrawingSuffix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}
