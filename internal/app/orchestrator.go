package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/OleksandrShtyka/parser/internal/domain"
)

const scratchPrefix = "parser-scratch-"

// eventBuffer bounds the per-handle progress channel. Slow subscribers
// lose intermediate events rather than stalling the worker; the terminal
// result is never dropped.
const eventBuffer = 64

// Handle is the subscription point for one in-flight download. It carries
// ordered progress events, a best-effort cancellation signal, and exactly
// one terminal result.
type Handle struct {
	events chan domain.ProgressEvent
	done   chan struct{}
	cancel context.CancelFunc

	mu          sync.Mutex
	result      domain.DownloadResult
	lastPercent float64
}

// Events returns the progress stream. The channel is closed after the
// terminal result is set.
func (h *Handle) Events() <-chan domain.ProgressEvent {
	return h.events
}

// Done is closed once the terminal result is available
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Result returns the terminal result. Valid only after Done is closed.
func (h *Handle) Result() domain.DownloadResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Wait blocks until the download reaches a terminal state
func (h *Handle) Wait() domain.DownloadResult {
	<-h.done
	return h.Result()
}

// Cancel requests a best-effort abort. The engine call is interrupted via
// context cancellation where supported; cleanup still runs either way.
func (h *Handle) Cancel() {
	h.cancel()
}

// publish forwards an event to the subscriber, enforcing that percent
// never regresses within one request.
func (h *Handle) publish(event domain.ProgressEvent) {
	h.mu.Lock()
	if event.HasPercent() {
		if event.Percent < h.lastPercent {
			event.Percent = h.lastPercent
		} else {
			h.lastPercent = event.Percent
		}
	}
	h.mu.Unlock()

	select {
	case h.events <- event:
	default:
	}
}

func (h *Handle) finish(result domain.DownloadResult) {
	h.mu.Lock()
	h.result = result
	h.mu.Unlock()
	close(h.events)
	close(h.done)
}

// Orchestrator runs one download operation per Start call on its own
// goroutine, wiring normalized progress to the handle and guaranteeing
// scratch-directory cleanup.
type Orchestrator struct {
	engine      domain.Engine
	downloadCfg *domain.DownloadConfig
	engineCfg   *domain.EngineConfig
	logger      *zap.Logger

	// lookPath is swappable in tests
	lookPath func(file string) (string, error)
}

// NewOrchestrator creates a download orchestrator
func NewOrchestrator(engine domain.Engine, downloadCfg *domain.DownloadConfig, engineCfg *domain.EngineConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		engine:      engine,
		downloadCfg: downloadCfg,
		engineCfg:   engineCfg,
		logger:      logger,
		lookPath:    exec.LookPath,
	}
}

// Start begins the download and returns immediately. All failures,
// including pre-engine validation, surface as the handle's terminal
// result so that every request yields exactly one DownloadResult.
func (o *Orchestrator) Start(ctx context.Context, req domain.DownloadRequest) *Handle {
	runCtx, cancel := context.WithCancel(ctx)
	handle := &Handle{
		events: make(chan domain.ProgressEvent, eventBuffer),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go o.run(runCtx, req, handle)
	return handle
}

func (o *Orchestrator) run(ctx context.Context, req domain.DownloadRequest, handle *Handle) {
	defer handle.cancel()

	handle.publish(domain.ProgressEvent{
		Phase:   domain.PhasePreparing,
		Percent: 0,
		Message: "Preparing download",
	})

	result, err := o.execute(ctx, req, handle)
	if err != nil {
		o.logger.Warn("Download failed",
			zap.String("id", req.ID),
			zap.String("url", req.URL),
			zap.Error(err))
		handle.publish(domain.ProgressEvent{
			Phase:   domain.PhaseFailed,
			Percent: domain.PercentUnknown,
			Message: err.Error(),
		})
		handle.finish(domain.DownloadResult{Success: false, Err: err})
		return
	}

	o.logger.Info("Download completed",
		zap.String("id", req.ID),
		zap.String("url", req.URL),
		zap.String("output", result.OutputPath))
	handle.finish(result)
}

// execute performs the download steps; any returned error is the terminal
// failure for the request. The scratch directory is removed on every
// failure path, and on success paths where ownership is not handed off.
func (o *Orchestrator) execute(ctx context.Context, req domain.DownloadRequest, handle *Handle) (result domain.DownloadResult, err error) {
	if strings.TrimSpace(req.URL) == "" {
		return result, domain.NewValidationError("url", "must not be empty")
	}

	if !req.Handoff {
		if err := o.ensureDestination(req.DestinationDir); err != nil {
			return result, err
		}
	}

	// Accelerator discoverability is checked before the engine runs;
	// there is no silent fallback to the plain download path.
	if req.UseAccelerator {
		if _, lookErr := o.lookPath(o.engineCfg.AcceleratorBinary); lookErr != nil {
			return result, &domain.AcceleratorUnavailable{Binary: o.engineCfg.AcceleratorBinary}
		}
	}

	scratch, err := os.MkdirTemp(o.downloadCfg.ScratchRoot, scratchPrefix)
	if err != nil {
		return result, fmt.Errorf("create scratch directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(scratch) }

	fetchResult, err := o.fetch(ctx, req, scratch, handle)
	if err != nil {
		cleanup()
		return result, err
	}

	outputPath, err := resolveOutput(scratch, fetchResult)
	if err != nil {
		cleanup()
		return result, err
	}

	if req.Handoff {
		// Subscriber owns the file and the scratch directory from here.
		return domain.DownloadResult{
			Success:    true,
			OutputPath: outputPath,
			ScratchDir: scratch,
		}, nil
	}

	finalPath := filepath.Join(req.DestinationDir, filepath.Base(outputPath))
	if err := moveFile(outputPath, finalPath); err != nil {
		cleanup()
		return result, fmt.Errorf("move output to destination: %w", err)
	}
	cleanup()

	return domain.DownloadResult{Success: true, OutputPath: finalPath}, nil
}

// fetch invokes the engine with progress wired through the normalizer.
// Engine panics are converted to EngineError instead of taking down the
// worker goroutine.
func (o *Orchestrator) fetch(ctx context.Context, req domain.DownloadRequest, scratch string, handle *Handle) (fetchResult *domain.FetchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.EngineError{URL: req.URL, Err: fmt.Errorf("engine panic: %v", r)}
		}
	}()

	opts := domain.FetchOptions{
		OutputDir:           scratch,
		FormatID:            req.FormatID,
		UseAccelerator:      req.UseAccelerator,
		ConcurrentFragments: o.engineCfg.ConcurrentFragments,
		Progress: func(raw domain.RawProgress) {
			handle.publish(domain.Normalize(raw))
		},
	}

	fetchResult, fetchErr := o.engine.Fetch(ctx, req.URL, opts)
	if fetchErr != nil {
		return nil, &domain.EngineError{URL: req.URL, Err: fetchErr}
	}
	return fetchResult, nil
}

// ensureDestination creates the destination directory if absent and
// verifies it is writable. The directory belongs to the caller and is
// never deleted.
func (o *Orchestrator) ensureDestination(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return &domain.DirectoryError{Path: dir, Err: fmt.Errorf("not configured")}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &domain.DirectoryError{Path: dir, Err: err}
	}
	probe, err := os.CreateTemp(dir, ".parser-write-check-*")
	if err != nil {
		return &domain.DirectoryError{Path: dir, Err: err}
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// resolveOutput locates the produced file: the engine-reported path, then
// a deterministic title.ext inside the scratch directory, then the first
// file found there.
func resolveOutput(scratch string, fetchResult *domain.FetchResult) (string, error) {
	if fetchResult != nil && fetchResult.OutputPath != "" {
		if fileExists(fetchResult.OutputPath) {
			return fetchResult.OutputPath, nil
		}
	}

	if fetchResult != nil && fetchResult.Title != "" {
		ext := fetchResult.Ext
		if ext == "" {
			ext = "mp4"
		}
		candidate := filepath.Join(scratch, fetchResult.Title+"."+ext)
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	entries, err := os.ReadDir(scratch)
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				return filepath.Join(scratch, entry.Name()), nil
			}
		}
	}

	return "", &domain.OutputNotFound{ScratchDir: scratch}
}

// SweepScratch removes abandoned scratch directories older than maxAge
// under root. Run once at server start; in-flight requests always use
// fresh directories, so age is a safe discriminator.
func SweepScratch(root string, maxAge time.Duration, logger *zap.Logger) {
	if root == "" {
		root = os.TempDir()
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), scratchPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		stale := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(stale); err != nil {
			logger.Warn("Failed to remove stale scratch directory",
				zap.String("path", stale), zap.Error(err))
			continue
		}
		logger.Info("Removed stale scratch directory", zap.String("path", stale))
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// moveFile renames src to dst, falling back to copy-and-delete across
// filesystem boundaries.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
