package domain

// CardState is a card together with its decoded drawing layer.
// Returned to the frontend to render the card and its surface.
type CardState struct {
	Card    Card            `json:"card"`
	Objects DrawAreaObjects `json:"objects"`
}
