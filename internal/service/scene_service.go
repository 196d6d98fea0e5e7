package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"scenecards/internal/domain"
	"scenecards/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Scene Service — scenes, cards and their drawing layers
// ─────────────────────────────────────────────────────────────

// SceneService manages scenes and cards. It is the only writer of
// cards.drawing_data.
type SceneService struct {
	store   *storage.SceneStore
	emitter EventEmitter
}

func NewSceneService(store *storage.SceneStore, emitter EventEmitter) *SceneService {
	return &SceneService{store: store, emitter: emitter}
}

// ── Scenes ─────────────────────────────────────────────────

func (s *SceneService) ListScenes() ([]domain.Scene, error) {
	scenes, err := s.store.ListScenes()
	if scenes == nil {
		scenes = []domain.Scene{}
	}
	return scenes, err
}

func (s *SceneService) CreateScene(name string) (*domain.Scene, error) {
	sc := &domain.Scene{
		ID:   uuid.New().String(),
		Name: name,
		Icon: "🎲",
	}
	if err := s.store.CreateScene(sc); err != nil {
		return nil, fmt.Errorf("create scene: %w", err)
	}
	return sc, nil
}

func (s *SceneService) RenameScene(id, name string) error {
	sc, err := s.store.GetScene(id)
	if err != nil {
		return err
	}
	sc.Name = name
	return s.store.UpdateScene(sc)
}

func (s *SceneService) DeleteScene(id string) error {
	if err := s.store.DeleteCardsByScene(id); err != nil {
		return fmt.Errorf("delete scene cards: %w", err)
	}
	return s.store.DeleteScene(id)
}

// ── Cards ──────────────────────────────────────────────────

func (s *SceneService) ListCards(sceneID string) ([]domain.Card, error) {
	cards, err := s.store.ListCards(sceneID)
	if cards == nil {
		cards = []domain.Card{}
	}
	return cards, err
}

// CreateCard appends a card with an empty drawing to the scene.
func (s *SceneService) CreateCard(ctx context.Context, sceneID, title, content string) (*domain.Card, error) {
	if _, err := s.store.GetScene(sceneID); err != nil {
		return nil, err
	}
	order, err := s.store.NextCardOrder(sceneID)
	if err != nil {
		return nil, fmt.Errorf("next card order: %w", err)
	}
	c := &domain.Card{
		ID:          uuid.New().String(),
		SceneID:     sceneID,
		Title:       title,
		Content:     content,
		Order:       order,
		DrawingData: "[]",
	}
	if err := s.store.CreateCard(c); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}
	s.emitter.Emit(ctx, "scene:cards-changed", map[string]string{"sceneId": sceneID})
	return c, nil
}

func (s *SceneService) GetCard(id string) (*domain.Card, error) {
	return s.store.GetCard(id)
}

func (s *SceneService) UpdateCardText(id, title, content string) error {
	c, err := s.store.GetCard(id)
	if err != nil {
		return err
	}
	c.Title = title
	c.Content = content
	return s.store.UpdateCard(c)
}

func (s *SceneService) DeleteCard(ctx context.Context, id string) error {
	c, err := s.store.GetCard(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCard(id); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "scene:cards-changed", map[string]string{"sceneId": c.SceneID})
	return nil
}

// GetCardState returns the card with its decoded drawing layer.
func (s *SceneService) GetCardState(cardID string) (*domain.CardState, error) {
	c, err := s.store.GetCard(cardID)
	if err != nil {
		return nil, err
	}
	objects, err := domain.UnmarshalObjects([]byte(c.DrawingData))
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", cardID, err)
	}
	return &domain.CardState{Card: *c, Objects: objects}, nil
}

// ── Drawing layer ──────────────────────────────────────────

// LoadDrawing decodes the card's persisted drawing.
func (s *SceneService) LoadDrawing(cardID string) ([]domain.DrawObject, error) {
	c, err := s.store.GetCard(cardID)
	if err != nil {
		return nil, err
	}
	objects, err := domain.UnmarshalObjects([]byte(c.DrawingData))
	if err != nil {
		return nil, fmt.Errorf("load drawing %s: %w", cardID, err)
	}
	return objects, nil
}

// SaveDrawing writes the full object list back to the card.
func (s *SceneService) SaveDrawing(cardID string, objects []domain.DrawObject) error {
	data, err := domain.MarshalObjects(objects)
	if err != nil {
		return fmt.Errorf("encode drawing: %w", err)
	}
	return s.store.UpdateDrawingData(cardID, string(data))
}

// CardFingerprint changes whenever the card row is written, by any process.
func (s *SceneService) CardFingerprint(cardID string) (string, error) {
	return s.store.CardFingerprint(cardID)
}
