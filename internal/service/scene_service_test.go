package service_test

import (
	"context"
	"errors"
	"testing"

	"scenecards/internal/domain"
	"scenecards/internal/storage"
)

func TestSceneService_CreateCardAppends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sc, err := env.scenes.CreateScene("Tavern brawl")
	if err != nil {
		t.Fatal(err)
	}
	first, err := env.scenes.CreateCard(ctx, sc.ID, "Room", "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := env.scenes.CreateCard(ctx, sc.ID, "Cellar", "")
	if err != nil {
		t.Fatal(err)
	}
	if first.Order != 0 || second.Order != 1 {
		t.Errorf("expected orders 0 and 1, got %d and %d", first.Order, second.Order)
	}

	cards, err := env.scenes.ListCards(sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 || cards[0].Title != "Room" {
		t.Errorf("unexpected cards %v", cards)
	}
	if n := len(env.emitter.Named("scene:cards-changed")); n != 2 {
		t.Errorf("expected 2 cards-changed events, got %d", n)
	}
}

func TestSceneService_CreateCardUnknownScene(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.scenes.CreateCard(context.Background(), "missing", "x", "")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSceneService_DrawingRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	sc, _ := env.scenes.CreateScene("Scene")
	card, _ := env.scenes.CreateCard(context.Background(), sc.ID, "Map", "")

	loaded, err := env.scenes.LoadDrawing(card.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected new card to have no objects, got %d", len(loaded))
	}

	objects := []domain.DrawObject{
		domain.LineObject{Color: "#000000", Points: []domain.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}},
		domain.TokenObject{Color: "#e53935", Token: "skull", Point: domain.Point{X: 50, Y: 50}},
	}
	if err := env.scenes.SaveDrawing(card.ID, objects); err != nil {
		t.Fatal(err)
	}

	state, err := env.scenes.GetCardState(card.ID)
	if err != nil {
		t.Fatal(err)
	}
	if domain.Fingerprint(state.Objects) != domain.Fingerprint(objects) {
		t.Errorf("expected saved objects back, got %v", state.Objects)
	}
}

func TestSceneService_CorruptDrawing(t *testing.T) {
	env := newTestEnv(t)
	sc, _ := env.scenes.CreateScene("Scene")
	card, _ := env.scenes.CreateCard(context.Background(), sc.ID, "Map", "")

	store := storage.NewSceneStore(env.db)
	store.UpdateDrawingData(card.ID, `[{"type":"hexagon"}]`)

	if _, err := env.scenes.LoadDrawing(card.ID); !errors.Is(err, domain.ErrUnknownObject) {
		t.Errorf("expected ErrUnknownObject, got %v", err)
	}
}

func TestSceneService_DeleteScene(t *testing.T) {
	env := newTestEnv(t)
	sc, _ := env.scenes.CreateScene("Scene")
	card, _ := env.scenes.CreateCard(context.Background(), sc.ID, "Map", "")

	if err := env.scenes.DeleteScene(sc.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.scenes.GetCard(card.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected card deleted with its scene, got %v", err)
	}
	scenes, _ := env.scenes.ListScenes()
	if len(scenes) != 0 {
		t.Errorf("expected no scenes, got %d", len(scenes))
	}
}
