// Package apperr holds the error kinds shared by the store, the upload
// services, and the HTTP layer. Handlers translate these into status codes;
// everything else is treated as an internal server error.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no record exists for the given id.
	ErrNotFound = errors.New("item not found")

	// ErrInvalidCollection means the tab name is not one of the known
	// project collections.
	ErrInvalidCollection = errors.New("invalid collection/tab")

	// ErrMissingFile means an operation that requires an image was called
	// without one.
	ErrMissingFile = errors.New("image is required")

	// ErrUnsupportedFileType means the upload failed the gallery
	// JPEG/JPG/PNG/GIF allow-list.
	ErrUnsupportedFileType = errors.New("invalid file type, only JPEG, JPG, PNG and GIF are allowed")

	// ErrFileTooLarge means the upload exceeded the per-file size cap.
	ErrFileTooLarge = errors.New("uploaded file exceeds the maximum allowed size")
)

// ValidationError is a write-time schema rejection from the store: a missing
// required field, an out-of-range coordinate, and so on. Reason names the
// violated constraint.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// TranscodeError wraps a decode or encode failure for one specific input
// file. It is not retryable without a different input.
type TranscodeError struct {
	Path string
	Err  error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("failed to transcode image %s: %v", e.Path, e.Err)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}
