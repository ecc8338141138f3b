package settings

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const appDirName = "parser"

// Settings is the desktop UI state persisted between runs
type Settings struct {
	DestinationDir string `json:"destination_dir"`
	UseAccelerator bool   `json:"use_accelerator"`
}

// Store reads and writes the settings file. Loading never fails: a
// missing or unreadable file yields defaults, and saving is best-effort.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates a settings store under the user configuration
// directory
func NewStore(logger *zap.Logger) *Store {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return &Store{
		path:   filepath.Join(dir, appDirName, "settings.json"),
		logger: logger,
	}
}

// NewStoreAt creates a settings store backed by an explicit file path
func NewStoreAt(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load returns the persisted settings, or defaults when the file is
// absent or corrupt
func (s *Store) Load() Settings {
	settings := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		s.logger.Warn("Ignoring corrupt settings file",
			zap.String("path", s.path), zap.Error(err))
		return Default()
	}
	if settings.DestinationDir == "" {
		settings.DestinationDir = Default().DestinationDir
	}
	return settings
}

// Save persists the settings. Failures are logged, never surfaced; a
// lost preference must not block the download flow.
func (s *Store) Save(settings Settings) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.logger.Warn("Failed to create settings directory",
			zap.String("path", s.path), zap.Error(err))
		return
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		s.logger.Warn("Failed to encode settings", zap.Error(err))
		return
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Warn("Failed to write settings file",
			zap.String("path", s.path), zap.Error(err))
	}
}

// Default returns the settings used on first run
func Default() Settings {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Settings{DestinationDir: filepath.Join(home, "Downloads")}
}
