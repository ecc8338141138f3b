package domain

import "fmt"

// ValidationError indicates bad caller input (missing URL, bad request
// shape). Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a request field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// DirectoryError indicates the destination directory could not be created
// or written. Fatal for the request.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("destination directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// AcceleratorUnavailable indicates the external accelerator was requested
// but its executable is not discoverable on the host. Surfaced before any
// engine call; there is no silent fallback to the plain path.
type AcceleratorUnavailable struct {
	Binary string
}

func (e *AcceleratorUnavailable) Error() string {
	return fmt.Sprintf("external accelerator %q not found on PATH", e.Binary)
}

// EngineError wraps a failure reported by the extraction engine itself
type EngineError struct {
	URL string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine failed for %s: %v", e.URL, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// OutputNotFound indicates the engine reported success but no output file
// could be resolved by any method. Treated as a hard failure.
type OutputNotFound struct {
	ScratchDir string
}

func (e *OutputNotFound) Error() string {
	return fmt.Sprintf("downloaded file not found in %s", e.ScratchDir)
}
