package grading

import "errors"

// MaxArtifactBytes is the upload ceiling for submitted artifacts. The bound
// is inclusive: a file of exactly this size is accepted.
const MaxArtifactBytes = 10 * 1024 * 1024

var (
	// ErrUnsupportedMediaType indicates the artifact MIME type is outside the allow-list.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrPayloadTooLarge indicates the artifact exceeds MaxArtifactBytes.
	ErrPayloadTooLarge = errors.New("artifact exceeds maximum allowed size")
)

var allowedArtifactTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
}

// ValidateArtifact checks a candidate artifact before any transport happens.
// Only images (JPEG, PNG, GIF) and PDFs are accepted, up to 10 MiB.
func ValidateArtifact(mimeType string, sizeBytes int64) error {
	if _, ok := allowedArtifactTypes[mimeType]; !ok {
		return ErrUnsupportedMediaType
	}
	if sizeBytes > MaxArtifactBytes {
		return ErrPayloadTooLarge
	}
	return nil
}
