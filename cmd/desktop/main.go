package main

import (
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/OleksandrShtyka/parser/internal/app"
	"github.com/OleksandrShtyka/parser/internal/domain"
	"github.com/OleksandrShtyka/parser/internal/infrastructure"
	"github.com/OleksandrShtyka/parser/internal/settings"
	"github.com/OleksandrShtyka/parser/internal/ui"
	"github.com/OleksandrShtyka/parser/pkg/logger"
)

func main() {
	config, err := app.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app.SweepScratch(config.Download.ScratchRoot, config.Download.ScratchMaxAge, log)

	engine := infrastructure.NewYTDLPEngine(&config.Engine, log)
	orchestrator := app.NewOrchestrator(engine, &config.Download, &config.Engine, log)
	notifier := infrastructure.NewNotifier(log, true)
	store := settings.NewStore(log)

	// History is optional; the window works without it
	var history domain.HistoryRepository
	if repo, err := infrastructure.NewSQLiteHistoryRepository(config.Download.HistoryDatabasePath); err != nil {
		log.Warn("Download history unavailable", zap.Error(err))
	} else {
		history = repo
		defer repo.Close()
		if count, err := repo.Count(); err == nil {
			log.Info("Download history loaded", zap.Int64("records", count))
		}
	}

	desktopApp := fyneapp.New()
	window := desktopApp.NewWindow("Parser")

	ui.NewRootUI(window, orchestrator, store, history, notifier, log)

	window.ShowAndRun()
}
