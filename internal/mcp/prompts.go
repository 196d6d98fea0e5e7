package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("sketch_encounter",
		mcp.WithPromptDescription("Sketch an encounter map on an index card with shapes, lines and tokens"),
		mcp.WithArgument("cardId",
			mcp.ArgumentDescription("Card to draw on"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("What the encounter area looks like"),
			mcp.RequiredArgument(),
		),
	), s.handleSketchEncounterPrompt)
}

func (s *Server) handleSketchEncounterPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	cardID := req.Params.Arguments["cardId"]
	description := req.Params.Arguments["description"]

	tokens := strings.Join(s.drawings.Catalog().Tokens(), ", ")
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Sketch an encounter on card %s", cardID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Sketch this encounter on card %s: %s

All coordinates are percent of the card, (0,0) top-left and (100,100) bottom-right.

1. Call set_active_card with the card ID, then list_drawing_objects to see what is already there
2. Use draw_rectangle for rooms and buildings, draw_ellipse for ponds, pits and clearings
3. Use draw_line with a points array for walls, rivers and paths
4. Use place_token for creatures and points of interest. Tokens cycle in this order: %s
5. If a shape lands in the wrong place, use move_drawing_object or undo_drawing rather than clearing

Keep it readable: a handful of shapes, not a detailed map.`, cardID, description, tokens),
				},
			},
		},
	}, nil
}
