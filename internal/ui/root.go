package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/OleksandrShtyka/parser/internal/app"
	"github.com/OleksandrShtyka/parser/internal/domain"
	"github.com/OleksandrShtyka/parser/internal/infrastructure"
	"github.com/OleksandrShtyka/parser/internal/settings"
)

const windowTitle = "Parser"

// RootUI is the main desktop window: one URL, one destination, one
// download at a time.
type RootUI struct {
	window       fyne.Window
	orchestrator *app.Orchestrator
	store        *settings.Store
	history      domain.HistoryRepository
	notifier     *infrastructure.Notifier
	logger       *zap.Logger

	urlEntry         *widget.Entry
	destinationEntry *widget.Entry
	acceleratorCheck *widget.Check
	downloadBtn      *widget.Button
	progressBar      *widget.ProgressBar
	statusLabel      *widget.Label

	mu     sync.Mutex
	active *app.Handle
}

// NewRootUI creates and initializes the main window
func NewRootUI(
	window fyne.Window,
	orchestrator *app.Orchestrator,
	store *settings.Store,
	history domain.HistoryRepository,
	notifier *infrastructure.Notifier,
	logger *zap.Logger,
) *RootUI {
	ui := &RootUI{
		window:       window,
		orchestrator: orchestrator,
		store:        store,
		history:      history,
		notifier:     notifier,
		logger:       logger,
	}

	window.SetTitle(windowTitle)
	ui.setupUI()

	// Closing mid-download would orphan the transfer; refuse until it
	// finishes or the user cancels it.
	window.SetCloseIntercept(func() {
		if ui.downloadActive() {
			dialog.ShowInformation(windowTitle,
				"A download is still running. Cancel it or wait for it to finish.", window)
			return
		}
		ui.persistSettings()
		window.Close()
	})

	return ui
}

// setupUI creates and arranges all window components
func (ui *RootUI) setupUI() {
	saved := ui.store.Load()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("Paste a video URL")
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onDownloadClick()
	}

	ui.destinationEntry = widget.NewEntry()
	ui.destinationEntry.SetText(saved.DestinationDir)

	browseBtn := widget.NewButton("Browse", ui.onBrowseDestination)

	ui.acceleratorCheck = widget.NewCheck("Maximum speed (aria2c)", nil)
	ui.acceleratorCheck.SetChecked(saved.UseAccelerator)

	ui.downloadBtn = widget.NewButton("Download", ui.onDownloadClick)

	ui.progressBar = widget.NewProgressBar()
	ui.statusLabel = widget.NewLabel("Ready")

	form := container.NewVBox(
		widget.NewLabel("Video URL"),
		ui.urlEntry,
		widget.NewLabel("Save to"),
		container.NewBorder(nil, nil, nil, browseBtn, ui.destinationEntry),
		ui.acceleratorCheck,
		ui.downloadBtn,
		ui.progressBar,
		ui.statusLabel,
	)

	ui.window.SetContent(container.NewPadded(form))
	ui.window.Resize(fyne.NewSize(560, 320))
}

// onBrowseDestination handles the destination folder picker
func (ui *RootUI) onBrowseDestination() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.destinationEntry.SetText(uri.Path())
		ui.persistSettings()
	}, ui.window)
}

// onDownloadClick starts a download for the entered URL. A second click
// while one is running is ignored.
func (ui *RootUI) onDownloadClick() {
	url := strings.TrimSpace(ui.urlEntry.Text)
	if url == "" {
		dialog.ShowError(fmt.Errorf("enter a video URL first"), ui.window)
		return
	}

	destination := strings.TrimSpace(ui.destinationEntry.Text)
	if destination == "" {
		destination = settings.Default().DestinationDir
		ui.destinationEntry.SetText(destination)
	}

	req := domain.NewDownloadRequest(url, destination)
	req.UseAccelerator = ui.acceleratorCheck.Checked

	ui.mu.Lock()
	if ui.active != nil {
		ui.mu.Unlock()
		return
	}
	handle := ui.orchestrator.Start(context.Background(), req)
	ui.active = handle
	ui.mu.Unlock()

	ui.persistSettings()
	ui.setRunning(true)

	go ui.followDownload(handle, url)
}

// followDownload relays orchestrator events onto the UI thread and
// finalizes the window state from the terminal result.
func (ui *RootUI) followDownload(handle *app.Handle, url string) {
	for event := range handle.Events() {
		ui.applyProgress(event)
	}

	result := handle.Result()

	ui.mu.Lock()
	ui.active = nil
	ui.mu.Unlock()

	ui.recordHistory(url, result)

	fyne.Do(func() {
		ui.setRunning(false)
		if result.Success {
			ui.progressBar.SetValue(1)
			ui.statusLabel.SetText("Done! Saved to " + result.OutputPath)
			return
		}
		ui.statusLabel.SetText("Download failed")
		dialog.ShowError(result.Err, ui.window)
	})

	if result.Success {
		ui.notifier.NotifyResult(windowTitle, true, result.OutputPath)
	} else {
		ui.notifier.NotifyResult(windowTitle, false, result.ErrorMessage())
	}
}

// applyProgress updates the progress bar and status line for one event
func (ui *RootUI) applyProgress(event domain.ProgressEvent) {
	fyne.Do(func() {
		if event.HasPercent() {
			ui.progressBar.SetValue(event.Percent / 100)
		}
		if event.Message != "" {
			ui.statusLabel.SetText(event.Message)
		} else {
			ui.statusLabel.SetText(statusForPhase(event.Phase))
		}
	})
}

func statusForPhase(phase domain.Phase) string {
	switch phase {
	case domain.PhasePreparing:
		return "Preparing download"
	case domain.PhaseDownloading:
		return "Downloading"
	case domain.PhasePostprocessing:
		return "Processing file"
	case domain.PhaseFinished:
		return "Done"
	case domain.PhaseFailed:
		return "Download failed"
	default:
		return ""
	}
}

// recordHistory stores the outcome in the local history database
func (ui *RootUI) recordHistory(url string, result domain.DownloadResult) {
	if ui.history == nil {
		return
	}
	record := domain.NewDownloadRecord(url, result)
	if err := ui.history.Create(record); err != nil {
		ui.logger.Warn("Failed to record download history", zap.Error(err))
	}
}

func (ui *RootUI) downloadActive() bool {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return ui.active != nil
}

func (ui *RootUI) setRunning(running bool) {
	if running {
		ui.downloadBtn.Disable()
		ui.progressBar.SetValue(0)
		ui.statusLabel.SetText("Starting")
		return
	}
	ui.downloadBtn.Enable()
}

func (ui *RootUI) persistSettings() {
	ui.store.Save(settings.Settings{
		DestinationDir: strings.TrimSpace(ui.destinationEntry.Text),
		UseAccelerator: ui.acceleratorCheck.Checked,
	})
}
