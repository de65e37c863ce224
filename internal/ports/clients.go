package ports

import "context"

// ImageInfo describes image data read from an import source.
type ImageInfo struct {
	// ContentType as reported by the source, if any.
	ContentType string

	// Size in bytes of the data read.
	Size int64

	// Checksum is the hex-encoded SHA-256 of the data.
	Checksum string
}

// ImageSource defines the client port for reading image data that an import
// task points at. Implemented by an outbound adapter; called by the worker.
type ImageSource interface {
	// Fetch reads the image at location.
	// Returns domain.ErrValidation if location is not an accepted URL,
	// domain.ErrNotFound if the source has no such image, and
	// domain.ErrUnavailable if the source is failing.
	Fetch(ctx context.Context, location string) (*ImageInfo, error)
}
