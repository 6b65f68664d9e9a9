package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

const defaultExt = "png"

type Object struct {
	Key          string    `json:"path"`
	URL          string    `json:"publicUrl"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Store keeps uploaded files (videos, recipe images, progress photos) under
// slash separated keys like "recipes/12/album/<uuid>.jpg".
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error)
	List(ctx context.Context, prefix string, limit int) ([]Object, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// NewKey builds a fresh object key under prefix, keeping the extension of the
// uploaded file name when it is a known image or video type. Anything else gets ".png".
func NewKey(prefix, filename string) string {
	return fmt.Sprintf("%s/%s.%s", strings.Trim(prefix, "/"), uuid.NewString(), Ext(filename))
}

// allowed upload types, svg and html are left out
var (
	imageTypes = map[string]string{
		"jpg":  "image/jpeg",
		"jpeg": "image/jpeg",
		"png":  "image/png",
		"gif":  "image/gif",
		"webp": "image/webp",
		"avif": "image/avif",
		"heic": "image/heic",
	}
	videoTypes = map[string]string{
		"mp4":  "video/mp4",
		"m4v":  "video/x-m4v",
		"mov":  "video/quicktime",
		"webm": "video/webm",
	}
)

func rawExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
}

// Ext returns the lowercased extension of filename, without the dot, or "png"
// when it is not an allowed image or video extension.
func Ext(filename string) string {
	ext := rawExt(filename)
	if _, ok := imageTypes[ext]; ok {
		return ext
	}
	if _, ok := videoTypes[ext]; ok {
		return ext
	}
	return defaultExt
}

func IsVideo(filename string) bool {
	_, ok := videoTypes[rawExt(filename)]
	return ok
}

// IsInlineMedia is true for keys that may be rendered by the browser.
func IsInlineMedia(filename string) bool {
	ext := rawExt(filename)
	_, image := imageTypes[ext]
	return image || IsVideo(filename)
}

// ContentType keeps the type sent by the client only when it is an image or
// video type other than svg. Otherwise it is derived from the stored extension.
func ContentType(sent, filename string) string {
	sent = strings.ToLower(strings.TrimSpace(sent))
	if (strings.HasPrefix(sent, "image/") || strings.HasPrefix(sent, "video/")) && !strings.Contains(sent, "svg") {
		return sent
	}
	ext := Ext(filename)
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	return imageTypes[ext]
}

func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
