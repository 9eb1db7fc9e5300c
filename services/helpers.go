package services

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/pitchside/league-system/storage"
)

var logoContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// uploadLogo stores a new logo object under the given prefix and removes
// the previous one, returning the new object key. Deleting the old object
// is best-effort; an orphaned object is preferable to a failed upload.
func uploadLogo(ctx context.Context, uploader storage.FileUploader, prefix string, oldKey *string, contentType string, file io.Reader) (string, error) {
	// The uploader is nil when object storage is not configured.
	if uploader == nil {
		return "", ErrUploadsDisabled
	}
	ext, ok := logoContentTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported logo content type %q", ErrValidationFailed, contentType)
	}

	key := path.Join(prefix, uuid.NewString()+ext)
	if _, err := uploader.Upload(ctx, key, contentType, file); err != nil {
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}

	if oldKey != nil && *oldKey != "" {
		_ = uploader.Delete(ctx, *oldKey)
	}
	return key, nil
}

// publicLogoURL resolves an object key into its public URL, or nil when no
// logo is set.
func publicLogoURL(uploader storage.FileUploader, key *string) *string {
	if uploader == nil || key == nil || *key == "" {
		return nil
	}
	url := uploader.GetPublicURL(*key)
	if url == "" {
		return nil
	}
	return &url
}
