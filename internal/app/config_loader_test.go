package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, 8000, config.Server.Port)
	assert.Equal(t, "yt-dlp", config.Engine.Binary)
	assert.Equal(t, "aria2c", config.Engine.AcceleratorBinary)
	assert.Equal(t, 4, config.Engine.ConcurrentFragments)
	assert.Equal(t, 10*time.Second, config.SMTP.Timeout)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: 0.0.0.0
  port: 9000
engine:
  binary: /usr/local/bin/yt-dlp
  concurrent_fragments: 8
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, "/usr/local/bin/yt-dlp", config.Engine.Binary)
	assert.Equal(t, 8, config.Engine.ConcurrentFragments)
	assert.Equal(t, "debug", config.Logging.Level)
	// Untouched sections keep defaults
	assert.Equal(t, "aria2c", config.Engine.AcceleratorBinary)
}

func TestLoadConfig_InvalidPort(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  port: 0\n"), 0644))

	_, err := LoadConfig(configPath)
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "Downloads"), expandPath("~/Downloads"))
	assert.Equal(t, filepath.Join(home, "Downloads"), expandPath("$HOME/Downloads"))
	assert.Equal(t, "/absolute/path", expandPath("/absolute/path"))
}
