package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"scenecards/internal/config"
	mcpserver "scenecards/internal/mcp"
	"scenecards/internal/service"
	"scenecards/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It shares the database with a running desktop app, which picks up the
// drawings through its card watcher.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	opts, err := drawingOptions(cfg)
	if err != nil {
		log.Fatalf("Invalid token catalog: %v", err)
	}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	emitter := noopEmitter{}
	scenes := service.NewSceneService(storage.NewSceneStore(db), emitter)
	drawings := service.NewDrawingService(ctx, scenes, emitter, opts)
	if err := drawings.StartReaper(cfg.ReapSpec, cfg.IdleTimeout); err != nil {
		log.Printf("[MCP] session reaper disabled: %v", err)
	}
	defer func() {
		drawings.StopReaper()
		drawings.CloseAll()
	}()

	mcpSrv := mcpserver.New(mcpserver.Deps{
		Emitter:  emitter,
		Scenes:   scenes,
		Drawings: drawings,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Printf("MCP server error: %v", err)
	}
}
