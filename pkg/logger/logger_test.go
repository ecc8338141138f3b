package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnknownLevelFallsBack(t *testing.T) {
	log, err := New(Config{Level: "chatty", Format: "console", OutputPath: "stdout"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parser.log")

	log, err := New(Config{Level: "info", Format: "json", OutputPath: path})
	require.NoError(t, err)

	log.Info("started")
	require.NoError(t, log.Sync())

	assert.FileExists(t, path)
}

func TestNewDefault(t *testing.T) {
	assert.NotNil(t, NewDefault())
}
