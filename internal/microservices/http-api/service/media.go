package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"videohub/internal/storage"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrForbidden        = errors.New("forbidden")
)

var imageTypes = []string{"image/png", "image/jpeg"}

// saveUpload sniffs the uploaded content, rejects anything outside allowed
// and stores it under prefix. The returned key is what models keep.
func saveUpload(ctx context.Context, store storage.Storage, prefix string, fh *multipart.FileHeader, allowed ...string) (string, error) {
	mime, err := sniff(fh)
	if err != nil {
		return "", err
	}
	if !isAllowed(mime, allowed) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, mime.String())
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	key := storage.NewKey(prefix, "upload"+mime.Extension())
	if err := store.Save(ctx, key, f); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return key, nil
}

func sniff(fh *multipart.FileHeader) (*mimetype.MIME, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detect media type: %w", err)
	}
	return mime, nil
}

func isAllowed(mime *mimetype.MIME, allowed []string) bool {
	for _, a := range allowed {
		if mime.Is(a) {
			return true
		}
	}
	return false
}
