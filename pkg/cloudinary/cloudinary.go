package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Archive keeps a copy of every submitted artifact in Cloudinary so teachers
// can review the original paper later. Archiving is best-effort from the
// caller's point of view.
type Archive struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary archive instance.
func New(cfg Config, logger zerolog.Logger) (*Archive, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	folder := strings.Trim(cfg.Folder, "/")
	if folder == "" {
		folder = "portal/submissions"
	}

	return &Archive{
		client: cld,
		folder: folder,
		logger: logger.With().Str("component", "cloudinary_archive").Logger(),
	}, nil
}

// Upload stores the artifact and returns a secure URL.
func (a *Archive) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	result, err := a.client.Upload.Upload(ctx, reader, uploader.UploadParams{
		Folder:       a.folder,
		PublicID:     buildPublicID(name),
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive artifact: %w", err)
	}

	a.logger.Info().Str("public_id", result.PublicID).Msg("artifact archived")

	return result.SecureURL, nil
}

func buildPublicID(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, base)

	base = strings.Trim(base, "-")
	if base == "" {
		base = "artifact"
	}

	return fmt.Sprintf("%s-%s", base, uuid.NewString())
}
