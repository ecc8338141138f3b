package domain

import (
	"github.com/google/uuid"
)

// DownloadRequest describes one download operation. It is immutable once
// submitted and consumed exactly once by the orchestrator.
type DownloadRequest struct {
	ID             string
	URL            string
	DestinationDir string
	FormatID       string
	UseAccelerator bool

	// Handoff controls scratch ownership after success. When true the
	// output file stays inside the scratch directory and the subscriber
	// (the HTTP adapter) becomes responsible for deleting both; when
	// false the orchestrator moves the file into DestinationDir and
	// removes the scratch directory itself.
	Handoff bool
}

// NewDownloadRequest creates a download request with a fresh ID
func NewDownloadRequest(url, destinationDir string) DownloadRequest {
	return DownloadRequest{
		ID:             uuid.New().String(),
		URL:            url,
		DestinationDir: destinationDir,
	}
}

// DownloadResult is the single terminal value of an orchestrated download
type DownloadResult struct {
	Success    bool
	OutputPath string
	// ScratchDir is set only on a handoff success; the consumer must
	// remove it after the file has been fully streamed or abandoned.
	ScratchDir string
	Err        error
}

// ErrorMessage returns the failure message, or "" on success
func (r DownloadResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
