package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shinyyama/cafe-menu/internal/storage"
)

const DefaultMaxImageBytes = 5 * 1024 * 1024

type UploadImageInput struct {
	Path        string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ImageService interface {
	Upload(ctx context.Context, in UploadImageInput) (string, error)
}

type imageService struct {
	store    storage.ImageStore
	maxBytes int64
	now      func() time.Time
}

func NewImageService(store storage.ImageStore, maxBytes int64) ImageService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &imageService{store: store, maxBytes: maxBytes, now: time.Now}
}

func (s *imageService) Upload(ctx context.Context, in UploadImageInput) (string, error) {
	path := strings.Trim(strings.TrimSpace(in.Path), "/")
	if in.Body == nil || in.Size <= 0 || path == "" {
		return "", invalid("no file or path provided")
	}
	if in.Size > s.maxBytes {
		return "", invalid("image must be smaller than %dMB", s.maxBytes/(1024*1024))
	}
	if !strings.HasPrefix(in.ContentType, "image/") {
		return "", invalid("only image files are allowed")
	}

	key := ObjectKey(path, in.Filename, s.now())
	url, err := s.store.Save(ctx, key, in.ContentType, in.Body)
	if err != nil {
		return "", backend("upload image", err)
	}
	return url, nil
}

// ObjectKey builds "<path>/<unix millis>-<sanitized filename>".
func ObjectKey(path, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%d-%s", path, at.UnixMilli(), SanitizeFilename(filename))
}

// SanitizeFilename replaces every UTF-16 code unit outside [A-Za-z0-9.-]
// with one underscore: one for a precomposed "é", two for an emoji.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r > 0xFFFF:
			b.WriteString("__")
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
