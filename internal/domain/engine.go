package domain

import "context"

// ProgressFunc receives raw engine progress events during a fetch
type ProgressFunc func(RawProgress)

// FetchOptions configures a single engine fetch
type FetchOptions struct {
	// OutputDir is where the engine writes its output (the scratch
	// directory owned by the request).
	OutputDir string
	// FormatID selects a specific format; empty means engine default.
	FormatID string
	// UseAccelerator routes the transfer through an external download
	// accelerator. Discoverability of the accelerator binary is the
	// caller's problem; the engine assumes it is present.
	UseAccelerator bool
	// ConcurrentFragments limits parallel segment fetches (0 = engine default)
	ConcurrentFragments int
	// Progress, when non-nil, is invoked repeatedly during the transfer
	Progress ProgressFunc
}

// FetchResult describes what a successful fetch produced
type FetchResult struct {
	// OutputPath is the engine-reported final file path; may be empty
	// when the engine could not report one.
	OutputPath string
	Title      string
	Ext        string
}

// Engine is the external URL-extraction-and-download capability this
// system wraps. Implementations resolve site-specific formats and perform
// the actual transfer; nothing in this repository reimplements that.
type Engine interface {
	// Probe resolves metadata and selectable formats without downloading
	Probe(ctx context.Context, url string) (*MediaInfo, error)

	// Fetch downloads the media into opts.OutputDir
	Fetch(ctx context.Context, url string, opts FetchOptions) (*FetchResult, error)
}

// MediaInfo is the probe result for a single media URL
type MediaInfo struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Duration   float64  `json:"duration"`
	Thumbnail  string   `json:"thumbnail"`
	Uploader   string   `json:"uploader"`
	WebpageURL string   `json:"webpage_url"`
	Formats    []Format `json:"formats"`
}

// Format describes one selectable download format
type Format struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution,omitempty"`
	ABR        float64 `json:"abr,omitempty"`
	VCodec     string  `json:"vcodec,omitempty"`
	ACodec     string  `json:"acodec,omitempty"`
	Filesize   int64   `json:"filesize,omitempty"`
	FormatNote string  `json:"format_note,omitempty"`
}

// AllowedContainers is the fixed set of containers exposed through the
// metadata endpoint
var AllowedContainers = map[string]bool{
	"mp4":  true,
	"webm": true,
	"m4a":  true,
	"mp3":  true,
}

// FilterFormats keeps only formats whose container is in AllowedContainers
func FilterFormats(formats []Format) []Format {
	filtered := make([]Format, 0, len(formats))
	for _, f := range formats {
		if AllowedContainers[f.Ext] {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
