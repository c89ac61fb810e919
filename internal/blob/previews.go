package blob

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/models"
)

// RefPrefix marks a previewUrl that points into the blob store
const RefPrefix = "blob:"

var ErrNotDataURL = errors.New("not a data URL")

// Files is the part of the entity store that holds uploaded file records
type Files interface {
	GetUploadedFiles() []models.UploadedFile
	UpdateUploadedFile(id string, patch func(*models.UploadedFile)) (bool, error)
}

// Ref returns the previewUrl value referring to blob id
func Ref(id string) string { return RefPrefix + id }

// DecodeDataURL returns the payload and media type of a data: URL
func DecodeDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", ErrNotDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing payload", ErrNotDataURL)
	}
	mediaType, isBase64 := strings.CutSuffix(header, ";base64")
	if mediaType == "" {
		mediaType = "text/plain;charset=US-ASCII"
	}
	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode data URL: %w", err)
		}
		return data, mediaType, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URL: %w", err)
	}
	return []byte(text), mediaType, nil
}

// MigratePreviews moves inline data: previews into blobs keyed by the file id and rewrites
// each record's previewUrl to a blob reference. It returns the number of files moved.
// A file whose preview cannot be decoded is skipped and left untouched.
func MigratePreviews(ctx context.Context, files Files, blobs Store) (int, error) {
	moved := 0
	for _, f := range files.GetUploadedFiles() {
		if !strings.HasPrefix(f.PreviewURL, "data:") {
			continue
		}
		data, _, err := DecodeDataURL(f.PreviewURL)
		if err != nil {
			logger.Warn("skipping unreadable preview", "file", f.ID, "error", err)
			continue
		}
		if err := blobs.Save(ctx, f.ID, data); err != nil {
			return moved, fmt.Errorf("failed to store preview for %s: %w", f.ID, err)
		}
		ok, err := files.UpdateUploadedFile(f.ID, func(u *models.UploadedFile) {
			u.PreviewURL = Ref(f.ID)
		})
		if err != nil {
			return moved, err
		}
		if ok {
			moved++
		}
	}
	return moved, nil
}

// Preview resolves a previewUrl: blob references are fetched, data: URLs decoded, anything
// else is reported as absent.
func Preview(ctx context.Context, blobs Store, previewURL string) ([]byte, bool, error) {
	if id, ok := strings.CutPrefix(previewURL, RefPrefix); ok {
		return blobs.Get(ctx, id)
	}
	if strings.HasPrefix(previewURL, "data:") {
		data, _, err := DecodeDataURL(previewURL)
		if err != nil {
			return nil, false, err
		}
		return data, true, nil
	}
	return nil, false, nil
}
