// Package photos stores student photos on disk and hands out opaque URIs for them.
package photos

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrEmpty       = errors.New("photo is empty")
	ErrTooLarge    = errors.New("photo exceeds size limit")
	ErrUnsupported = errors.New("photo must be a JPEG, PNG or WebP image")
)

// allowed maps accepted MIME types to the extension files are written with.
var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// FileStore saves photos under a base directory.
type FileStore struct {
	basePath string
	maxBytes int64
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string, maxBytes int64) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("photo base path is required")
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve photo dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &FileStore{basePath: abs, maxBytes: maxBytes}, nil
}

// Save reads one image from r and returns its file:// URI.
// The content type is sniffed from the bytes; the caller's claim is not trusted.
func (f *FileStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if int64(len(data)) > f.maxBytes {
		return "", ErrTooLarge
	}

	mime := mimetype.Detect(data)
	ext, ok := allowed[mime.String()]
	if !ok {
		return "", fmt.Errorf("%w: got %s", ErrUnsupported, mime.String())
	}

	target := filepath.Join(f.basePath, uuid.New().String()+ext)
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, bytes.NewReader(data)); err != nil {
		out.Close()
		os.Remove(target)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("close file: %w", err)
	}

	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(target)}).String(), nil
}

// Owns reports whether uri points at a photo saved by this store.
func (f *FileStore) Owns(uri string) bool {
	_, ok := f.path(uri)
	return ok
}

// Delete removes the photo behind uri. URIs the store does not own and files
// that are already gone are ignored.
func (f *FileStore) Delete(uri string) error {
	path, ok := f.path(uri)
	if !ok {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

func (f *FileStore) path(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	path := filepath.Clean(filepath.FromSlash(u.Path))
	if filepath.Dir(path) != f.basePath {
		return "", false
	}
	return path, true
}
