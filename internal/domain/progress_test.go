package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_PercentString(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawProgress
		expected float64
	}{
		{
			name:     "plain percent",
			raw:      RawProgress{Status: RawStatusDownloading, PercentStr: "42.5%"},
			expected: 42.5,
		},
		{
			name:     "padded percent",
			raw:      RawProgress{Status: RawStatusDownloading, PercentStr: "  7.0% "},
			expected: 7.0,
		},
		{
			name:     "integer percent",
			raw:      RawProgress{Status: RawStatusDownloading, PercentStr: "100%"},
			expected: 100,
		},
		{
			name:     "over 100 clamps",
			raw:      RawProgress{Status: RawStatusDownloading, PercentStr: "104.2%"},
			expected: 100,
		},
		{
			name:     "negative clamps to zero",
			raw:      RawProgress{Status: RawStatusDownloading, PercentStr: "-3%"},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Normalize(tt.raw)
			assert.Equal(t, PhaseDownloading, event.Phase)
			assert.True(t, event.HasPercent())
			assert.InDelta(t, tt.expected, event.Percent, 0.001)
		})
	}
}

func TestNormalize_MalformedPercentFallsBackToBytes(t *testing.T) {
	raw := RawProgress{
		Status:          RawStatusDownloading,
		PercentStr:      "N/A%",
		DownloadedBytes: 250,
		TotalBytes:      1000,
	}

	event := Normalize(raw)
	assert.Equal(t, PhaseDownloading, event.Phase)
	assert.InDelta(t, 25.0, event.Percent, 0.001)
}

func TestNormalize_ByteRatio(t *testing.T) {
	raw := RawProgress{
		Status:          RawStatusDownloading,
		DownloadedBytes: 512,
		TotalBytes:      1024,
	}

	event := Normalize(raw)
	assert.InDelta(t, 50.0, event.Percent, 0.001)
}

func TestNormalize_NoPercentAvailable(t *testing.T) {
	raw := RawProgress{Status: RawStatusDownloading, DownloadedBytes: 512}

	event := Normalize(raw)
	assert.Equal(t, PhaseDownloading, event.Phase)
	assert.False(t, event.HasPercent())
}

func TestNormalize_TerminalStatusesForcePercent(t *testing.T) {
	for _, status := range []string{RawStatusFinished, RawStatusPostprocessing} {
		t.Run(status, func(t *testing.T) {
			event := Normalize(RawProgress{Status: status})
			assert.Equal(t, 100.0, event.Percent)
		})
	}

	finished := Normalize(RawProgress{Status: RawStatusFinished})
	assert.Equal(t, PhaseFinished, finished.Phase)
	assert.Equal(t, "postprocessing starting", finished.Message)

	post := Normalize(RawProgress{Status: RawStatusPostprocessing})
	assert.Equal(t, PhasePostprocessing, post.Phase)
}

func TestNormalize_UnknownStatus(t *testing.T) {
	for _, status := range []string{"", "error", "extracting", "whatever"} {
		event := Normalize(RawProgress{Status: status})
		assert.Equal(t, PhasePreparing, event.Phase, "status %q", status)
		assert.False(t, event.HasPercent())
	}
}

func TestNormalize_SpeedInMessage(t *testing.T) {
	event := Normalize(RawProgress{
		Status:     RawStatusDownloading,
		PercentStr: "10%",
		SpeedStr:   "1.2MiB/s",
	})
	assert.Contains(t, event.Message, "1.2MiB/s")
}

func TestNormalize_PercentStringGrid(t *testing.T) {
	// All inputs matching ^\d+(\.\d+)?%$ must parse to the clamped value
	for _, value := range []float64{0, 0.1, 12, 50.5, 99.9, 100} {
		input := fmt.Sprintf("%g%%", value)
		event := Normalize(RawProgress{Status: RawStatusDownloading, PercentStr: input})
		assert.InDelta(t, value, event.Percent, 0.001, "input %q", input)
	}
}
