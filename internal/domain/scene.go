package domain

import "time"

// Scene groups the index cards of one tabletop scene.
type Scene struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Card is an index card. DrawingData holds the card's drawing layer as
// encoded by MarshalObjects.
type Card struct {
	ID          string    `json:"id"`
	SceneID     string    `json:"sceneId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Order       int       `json:"order"`
	DrawingData string    `json:"drawingData"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type SceneStore interface {
	CreateScene(sc *Scene) error
	GetScene(id string) (*Scene, error)
	ListScenes() ([]Scene, error)
	UpdateScene(sc *Scene) error
	DeleteScene(id string) error

	CreateCard(c *Card) error
	GetCard(id string) (*Card, error)
	ListCards(sceneID string) ([]Card, error)
	UpdateCard(c *Card) error
	UpdateDrawingData(cardID, data string) error
	DeleteCard(id string) error
	DeleteCardsByScene(sceneID string) error
}
