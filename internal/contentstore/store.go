package contentstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrNotFound     = errors.New("content not found")
	ErrInvalidName  = errors.New("invalid content name")
	ErrInvalidImage = errors.New("invalid image")
)

// Store keeps uploaded binary content (chat images, avatars) under flat names.
type Store interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}

// ValidName rejects anything that could escape the store's namespace.
func ValidName(name string) bool {
	if name == "" || len(name) > 200 {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return false
	}
	return true
}

// DecodeImage decodes a base64 payload and sniffs its format. It returns
// the raw bytes and a file extension.
func DecodeImage(b64 string) ([]byte, string, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(b64))
	if err != nil || len(data) == 0 {
		return nil, "", ErrInvalidImage
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrInvalidImage
	}

	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	return data, ext, nil
}

// NewName builds a collision-free stored name with the given extension.
func NewName(prefix, ext string) string {
	name := uuid.NewString() + "." + ext
	if prefix != "" {
		name = prefix + "_" + name
	}
	return name
}
