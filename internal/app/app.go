package app

import (
	"context"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"scenecards/internal/config"
	"scenecards/internal/drawing"
	"scenecards/internal/feed"
	"scenecards/internal/service"
	"scenecards/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    config.Config

	db       *storage.DB
	scenes   *service.SceneService
	drawings *service.DrawingService
	player   *service.PlayerSettings
	feed     *feed.Hub
	watcher  *cardWatcher
}

// New creates a new App.
func New() *App {
	return &App{}
}

// wailsEmitter forwards service events to the frontend.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// drawingOptions maps the configuration onto drawing sessions. A broken
// token catalog is returned as an error; callers treat it as fatal.
func drawingOptions(cfg config.Config) (service.DrawingOptions, error) {
	catalog, err := drawing.DefaultCatalog()
	if err != nil {
		return service.DrawingOptions{}, err
	}
	opts := service.DrawingOptions{
		Catalog:  catalog,
		Debounce: cfg.Debounce,
	}
	if cfg.Reconcile == "length" {
		opts.Reconcile = drawing.ReconcileLength
	}
	return opts, nil
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)
	a.cfg = config.Load()

	opts, err := drawingOptions(a.cfg)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Invalid token catalog: %v", err)
		return
	}

	db, err := storage.New(a.cfg.DBPath)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db

	emitter := wailsEmitter{}
	a.scenes = service.NewSceneService(storage.NewSceneStore(db), emitter)
	a.drawings = service.NewDrawingService(a.ctx, a.scenes, emitter, opts)
	a.player = service.NewPlayerSettings(storage.NewSettingsStore(db))

	if a.cfg.FeedAddr != "" {
		a.feed = feed.NewHub()
		a.drawings.SetPublisher(a.feed)
		go func() {
			if err := a.feed.ListenAndServe(a.ctx, a.cfg.FeedAddr); err != nil {
				wailsRuntime.LogErrorf(ctx, "[FEED] %v", err)
			}
		}()
	}

	if err := a.drawings.StartReaper(a.cfg.ReapSpec, a.cfg.IdleTimeout); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to start session reaper: %v", err)
	}

	// The headless MCP process writes to the same database file.
	a.watcher = newCardWatcher(a.ctx, a.scenes, a.drawings, emitter)
	if err := a.watcher.Start(db.Path()); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to watch database: %v", err)
	}

	wailsRuntime.LogInfof(ctx, "Scenecards started (data dir %s)", a.cfg.DataDir)
}

// Shutdown is called when the app is closing. Sessions are closed first so
// pending drawings reach the database.
func (a *App) Shutdown(ctx context.Context) {
	if a.drawings != nil {
		a.drawings.StopReaper()
		a.drawings.CloseAll()
	}
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.feed != nil {
		a.feed.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
