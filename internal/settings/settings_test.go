package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStore_LoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "settings.json"), zap.NewNop())

	settings := store.Load()

	assert.Equal(t, Default().DestinationDir, settings.DestinationDir)
	assert.False(t, settings.UseAccelerator)
}

func TestStore_LoadCorruptFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	settings := NewStoreAt(path, zap.NewNop()).Load()

	assert.Equal(t, Default(), settings)
}

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	store := NewStoreAt(path, zap.NewNop())

	saved := Settings{DestinationDir: "/media/videos", UseAccelerator: true}
	store.Save(saved)

	assert.Equal(t, saved, store.Load())
}

func TestStore_LoadFillsEmptyDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"use_accelerator": true}`), 0644))

	settings := NewStoreAt(path, zap.NewNop()).Load()

	assert.True(t, settings.UseAccelerator)
	assert.Equal(t, Default().DestinationDir, settings.DestinationDir)
}
