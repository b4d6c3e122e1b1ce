// Package media stores product images and payment slips under names derived
// from business keys: products/{SKU}.{ext} and slips/{order}-{payment}.{ext}.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	MaxImageBytes = 8 << 20
	sniffLen      = 512
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrEmptyFile       = errors.New("empty file")
	ErrOutsideRoot     = errors.New("path is outside the upload root")
)

// ImageStore persists an object under key and returns the path or URL that
// gets written to the database. Same reports whether two returned paths name
// the same stored object; a Cloudinary URL changes version on every upload
// while the object behind it stays the same.
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
	Same(a, b string) bool
}

// Stager is implemented by stores that can hold a written object back from
// its final path until Commit, so an overwrite of the same key only happens
// once the row pointing at it is saved.
type Stager interface {
	Stage(ctx context.Context, key string, r io.Reader) (*Staged, error)
}

// Staged is an object written by a Stager but not yet published.
type Staged struct {
	Path    string
	publish func() error
	discard func()
}

// Commit moves the staged object to Path.
func (s *Staged) Commit() error { return s.publish() }

// Abort drops the staged object. Whatever was at Path is untouched.
func (s *Staged) Abort() { s.discard() }

var imageExt = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// SniffImage detects the image type from content rather than the client's
// Content-Type header. The returned reader replays the sniffed bytes.
func SniffImage(r io.Reader) (string, io.Reader, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("read: %w", err)
	}
	if n == 0 {
		return "", nil, ErrEmptyFile
	}

	mime := http.DetectContentType(buf[:n])
	ext, ok := imageExt[mime]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
	return ext, io.MultiReader(bytes.NewReader(buf[:n]), r), nil
}

// ProductKey is the storage key for a product image.
func ProductKey(sku, ext string) string {
	return fmt.Sprintf("products/%s.%s", sku, strings.ToLower(ext))
}

// SlipKey is the storage key for a payment slip.
func SlipKey(orderNumber string, paymentID int64, ext string) string {
	return fmt.Sprintf("slips/%s-%d.%s", orderNumber, paymentID, strings.ToLower(ext))
}
