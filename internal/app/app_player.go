package app

// ── Player ─────────────────────────────────────────────────

// GetPlayerName returns the remembered player name, or "" if none was set.
func (a *App) GetPlayerName() string {
	return a.player.Name()
}

func (a *App) SetPlayerName(name string) error {
	return a.player.SetName(name)
}
