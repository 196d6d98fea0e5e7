package main

import (
	"embed"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	sceneApp "scenecards/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// `scenecards mcp` runs the headless MCP server on stdio
	if len(os.Args) > 1 && os.Args[1] == "mcp" {
		sceneApp.ServeMCP()
		return
	}

	app := sceneApp.New()

	// macOS needs an Edit menu for Cmd+C/V/X/A to reach the WebView
	appMenu := menu.NewMenu()
	appMenu.Append(menu.EditMenu())

	err := wails.Run(&options.App{
		Title:     "Scenecards",
		Width:     1280,
		Height:    860,
		MinWidth:  800,
		MinHeight: 600,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 24, G: 20, B: 16, A: 1},
		Menu:             appMenu,
		OnStartup:        app.Startup,
		OnShutdown:       app.Shutdown,
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  true,
				FullSizeContent:            true,
			},
			About: &mac.AboutInfo{
				Title:   "Scenecards",
				Message: "Index cards and sketches for tabletop scenes",
			},
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
