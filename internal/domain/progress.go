package domain

import (
	"strconv"
	"strings"
)

// Phase represents the coarse lifecycle stage of a download
type Phase string

const (
	PhasePreparing      Phase = "preparing"
	PhaseDownloading    Phase = "downloading"
	PhasePostprocessing Phase = "postprocessing"
	PhaseFinished       Phase = "finished"
	PhaseFailed         Phase = "failed"
)

// PercentUnknown is used when no percentage can be derived from an event
const PercentUnknown = -1.0

// ProgressEvent is the canonical progress tuple delivered to subscribers.
// Percent is in [0,100], or PercentUnknown when the engine gave us nothing
// to compute one from.
type ProgressEvent struct {
	Phase   Phase
	Percent float64
	Message string
}

// HasPercent reports whether the event carries a usable percentage
func (e ProgressEvent) HasPercent() bool {
	return e.Percent >= 0
}

// RawProgress is the engine-shaped progress event before normalization.
// Fields mirror what yt-dlp hands to its progress hooks: a status tag plus
// optional byte counters and preformatted display strings.
type RawProgress struct {
	Status          string
	DownloadedBytes int64
	TotalBytes      int64
	PercentStr      string
	SpeedStr        string
}

// Raw status tags emitted by the engine
const (
	RawStatusDownloading    = "downloading"
	RawStatusFinished       = "finished"
	RawStatusPostprocessing = "postprocessing"
)

// Normalize maps a raw engine event to a canonical ProgressEvent.
// Percent resolution order: preformatted percent string, then byte ratio,
// then unknown. Malformed percent strings fall through to the next step
// instead of failing.
func Normalize(raw RawProgress) ProgressEvent {
	switch raw.Status {
	case RawStatusDownloading:
		event := ProgressEvent{
			Phase:   PhaseDownloading,
			Percent: resolvePercent(raw),
			Message: "Downloading",
		}
		if raw.SpeedStr != "" {
			event.Message = "Downloading at " + raw.SpeedStr
		}
		return event

	case RawStatusFinished:
		// The engine reports "finished" per media stream; postprocessing
		// (muxing) may still follow, so the pipeline is not terminal yet.
		return ProgressEvent{
			Phase:   PhaseFinished,
			Percent: 100,
			Message: "postprocessing starting",
		}

	case RawStatusPostprocessing:
		return ProgressEvent{
			Phase:   PhasePostprocessing,
			Percent: 100,
			Message: "Postprocessing",
		}

	default:
		return ProgressEvent{
			Phase:   PhasePreparing,
			Percent: PercentUnknown,
			Message: "Preparing",
		}
	}
}

// resolvePercent derives a percentage from a raw downloading event
func resolvePercent(raw RawProgress) float64 {
	if s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw.PercentStr), "%")); s != "" {
		if value, err := strconv.ParseFloat(s, 64); err == nil {
			return clampPercent(value)
		}
	}

	if raw.TotalBytes > 0 {
		return clampPercent(float64(raw.DownloadedBytes) / float64(raw.TotalBytes) * 100)
	}

	return PercentUnknown
}

func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
