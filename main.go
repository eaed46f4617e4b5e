package main

import (
	"context"
	"embed"
	"fmt"
	"log"

	"imagevault/internal/database"
	"imagevault/internal/events"
	"imagevault/internal/openai"
	"imagevault/internal/services"
	"imagevault/internal/storage"
	"imagevault/internal/utils"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm/logger"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {

	app := NewApp()

	if err := utils.LoadEnv(); err != nil {
		log.Printf("no .env loaded: %v", err)
	}

	db, err := database.Init(database.Config{
		LogLevel: logger.Warn,
	})
	if err != nil {
		fmt.Println("Error opening database:", err)
		return
	}

	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	//Create each service
	keyringService := services.NewKeyringService()
	dbService := services.NewDbServices(db)

	imageStore, err := storage.NewFileImageStore(storage.GetDefaultImagesDir())
	if err != nil {
		fmt.Println("Error opening image store:", err)
		return
	}

	client := openai.NewClient(keyringService, nil)
	generatorService := services.NewGeneratorService(client, imageStore)

	// Create application with options
	err = wails.Run(&options.App{
		Title:  "ImageVault",
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "ImageVault",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup: func(ctx context.Context) {
			app.startup(ctx)
			events.EnableRuntimeEmitter()
			keyringService.Startup()
			dbService.AppSettings.Startup(ctx)
			generatorService.Startup(ctx)
			generatorService.LoadImages()
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
			dbService.AppSettings,
			generatorService,
			keyringService,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
