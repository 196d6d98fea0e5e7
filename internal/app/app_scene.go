package app

// ─────────────────────────────────────────────────────────────
// Scene + Card Handlers — thin delegates to SceneService
// ─────────────────────────────────────────────────────────────

import (
	"errors"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"scenecards/internal/domain"
	"scenecards/internal/service"
)

// ── Scenes ─────────────────────────────────────────────────

func (a *App) ListScenes() ([]domain.Scene, error) {
	return a.scenes.ListScenes()
}

func (a *App) CreateScene(name string) (*domain.Scene, error) {
	return a.scenes.CreateScene(name)
}

func (a *App) RenameScene(id, name string) error {
	return a.scenes.RenameScene(id, name)
}

func (a *App) DeleteScene(id string) error {
	cards, err := a.scenes.ListCards(id)
	if err != nil {
		return err
	}
	for _, c := range cards {
		a.dropSession(c.ID)
	}
	return a.scenes.DeleteScene(id)
}

// ── Cards ──────────────────────────────────────────────────

func (a *App) ListCards(sceneID string) ([]domain.Card, error) {
	return a.scenes.ListCards(sceneID)
}

func (a *App) CreateCard(sceneID, title, content string) (*domain.Card, error) {
	return a.scenes.CreateCard(a.ctx, sceneID, title, content)
}

func (a *App) GetCardState(cardID string) (*domain.CardState, error) {
	wailsRuntime.LogInfof(a.ctx, "[GetCardState] loading card: %s", cardID)
	return a.scenes.GetCardState(cardID)
}

func (a *App) UpdateCardText(id, title, content string) error {
	return a.scenes.UpdateCardText(id, title, content)
}

func (a *App) DeleteCard(id string) error {
	a.dropSession(id)
	return a.scenes.DeleteCard(a.ctx, id)
}

// dropSession closes a card's drawing session if it has one.
func (a *App) dropSession(cardID string) {
	if err := a.drawings.Close(cardID); err != nil && !errors.Is(err, service.ErrSessionNotOpen) {
		wailsRuntime.LogErrorf(a.ctx, "[DRAW] close card %s: %v", cardID, err)
	}
}
