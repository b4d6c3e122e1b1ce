package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore keeps images on Cloudinary with the storage key (minus
// extension) as the public id, so products/ELC0001.jpg becomes public id
// products/ELC0001 and a re-upload overwrites it.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary) *CloudinaryStore {
	return &CloudinaryStore{cld: cld}
}

func (s *CloudinaryStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	publicID := strings.TrimSuffix(key, path.Ext(key))
	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:   publicID,
		Overwrite:  api.Bool(true),
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStore) Remove(ctx context.Context, photoURL string) error {
	if photoURL == "" {
		return nil
	}
	publicID, err := PublicIDFromURL(photoURL)
	if err != nil {
		return err
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}

// Same compares public ids, ignoring the version segment Cloudinary bumps on
// every overwrite.
func (s *CloudinaryStore) Same(a, b string) bool {
	if a == b {
		return true
	}
	idA, errA := PublicIDFromURL(a)
	idB, errB := PublicIDFromURL(b)
	if errA != nil || errB != nil {
		return false
	}
	return idA == idB
}

var versionSegment = regexp.MustCompile(`^v[0-9]+$`)

// PublicIDFromURL turns
// https://res.cloudinary.com/demo/image/upload/v1740815725/products/ELC0001.jpg
// into products/ELC0001.
func PublicIDFromURL(photoURL string) (string, error) {
	parsed, err := url.Parse(photoURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	parts := strings.Split(parsed.Path, "/")
	for i, part := range parts {
		if part != "upload" || i+1 >= len(parts) {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 1 && versionSegment.MatchString(rest[0]) {
			rest = rest[1:]
		}
		id := strings.Join(rest, "/")
		return strings.TrimSuffix(id, path.Ext(id)), nil
	}

	return "", errors.New("failed to extract public ID from URL")
}
