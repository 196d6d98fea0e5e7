package service

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"scenecards/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Player name — remembered across windows and restarts
// ─────────────────────────────────────────────────────────────
//
// One value per process, loaded from app_settings on first read and written
// through on every change.

const settingPlayerName = "player_name"

// PlayerSettings owns the remembered player name.
type PlayerSettings struct {
	store *storage.SettingsStore

	once sync.Once
	mu   sync.RWMutex
	name string
}

func NewPlayerSettings(store *storage.SettingsStore) *PlayerSettings {
	return &PlayerSettings{store: store}
}

func (p *PlayerSettings) load() {
	p.once.Do(func() {
		if p.store == nil {
			return
		}
		name, _, err := p.store.Get(settingPlayerName)
		if err != nil {
			log.Printf("[SETTINGS] load player name: %v", err)
			return
		}
		p.mu.Lock()
		p.name = name
		p.mu.Unlock()
	})
}

// Name returns the remembered player name, or "" if none was set.
func (p *PlayerSettings) Name() string {
	p.load()
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// SetName trims and stores the player name.
func (p *PlayerSettings) SetName(name string) error {
	p.load()
	name = strings.TrimSpace(name)
	if p.store != nil {
		if err := p.store.Put(settingPlayerName, name); err != nil {
			return fmt.Errorf("save player name: %w", err)
		}
	}
	p.mu.Lock()
	p.name = name
	p.mu.Unlock()
	return nil
}
