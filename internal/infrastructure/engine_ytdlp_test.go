package infrastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OleksandrShtyka/parser/internal/domain"
)

func TestParseProgressLine_Downloading(t *testing.T) {
	line := "PROGRESS|downloading|1048576|4194304|NA|  25.0%|2.50MiB/s"

	raw, ok := parseProgressLine(line)
	require.True(t, ok)
	assert.Equal(t, "downloading", raw.Status)
	assert.Equal(t, int64(1048576), raw.DownloadedBytes)
	assert.Equal(t, int64(4194304), raw.TotalBytes)
	assert.Equal(t, "25.0%", raw.PercentStr)
	assert.Equal(t, "2.50MiB/s", raw.SpeedStr)
}

func TestParseProgressLine_EstimateFallback(t *testing.T) {
	line := "PROGRESS|downloading|512|NA|2048|NA|NA"

	raw, ok := parseProgressLine(line)
	require.True(t, ok)
	assert.Equal(t, int64(512), raw.DownloadedBytes)
	assert.Equal(t, int64(2048), raw.TotalBytes)
	assert.Empty(t, raw.PercentStr)
	assert.Empty(t, raw.SpeedStr)
}

func TestParseProgressLine_FloatCounters(t *testing.T) {
	line := "PROGRESS|downloading|1024.0|4096.0|NA|NA|NA"

	raw, ok := parseProgressLine(line)
	require.True(t, ok)
	assert.Equal(t, int64(1024), raw.DownloadedBytes)
	assert.Equal(t, int64(4096), raw.TotalBytes)
}

func TestParseProgressLine_Postprocessing(t *testing.T) {
	raw, ok := parseProgressLine("PROGRESS|postprocessing|||||")
	require.True(t, ok)
	assert.Equal(t, "postprocessing", raw.Status)
}

func TestParseProgressLine_RejectsOtherOutput(t *testing.T) {
	for _, line := range []string{
		"/tmp/parser-scratch-1/My Video.mp4",
		"[download] Destination: video.mp4",
		"PROGRESS|toofewfields",
		"",
	} {
		_, ok := parseProgressLine(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestMapProbeOutput(t *testing.T) {
	data := []byte(`{
		"id": "dQw4w9WgXcQ",
		"title": "Example Video",
		"duration": 212.5,
		"thumbnail": "https://example.com/thumb.jpg",
		"uploader": "Example Channel",
		"webpage_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"formats": [
			{"format_id": "18", "ext": "mp4", "resolution": "640x360", "vcodec": "avc1", "acodec": "mp4a", "filesize": 12345},
			{"format_id": "137", "ext": "mp4", "width": 1920, "height": 1080, "vcodec": "avc1", "acodec": "none", "filesize_approx": 99999},
			{"format_id": "140", "ext": "m4a", "abr": 129.5, "vcodec": "none", "acodec": "mp4a"}
		]
	}`)

	info, err := mapProbeOutput(data)
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", info.ID)
	assert.Equal(t, "Example Video", info.Title)
	assert.InDelta(t, 212.5, info.Duration, 0.001)
	require.Len(t, info.Formats, 3)

	// Resolution derived from width/height when absent
	assert.Equal(t, "1920x1080", info.Formats[1].Resolution)
	// filesize_approx used when filesize missing
	assert.Equal(t, int64(99999), info.Formats[1].Filesize)
	assert.InDelta(t, 129.5, info.Formats[2].ABR, 0.001)
}

func TestMapProbeOutput_Invalid(t *testing.T) {
	_, err := mapProbeOutput([]byte("ERROR: not json"))
	assert.Error(t, err)
}

var _ domain.Engine = (*YTDLPEngine)(nil)
