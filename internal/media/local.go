package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes files under Root and serves them from PublicPrefix,
// e.g. Root=./uploads, PublicPrefix=/uploads → /uploads/products/ELC0001.jpg.
type LocalStore struct {
	Root         string
	PublicPrefix string
}

func NewLocalStore(root, publicPrefix string) *LocalStore {
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	return &LocalStore{Root: root, PublicPrefix: strings.TrimRight(publicPrefix, "/")}
}

func (s *LocalStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	full := filepath.Join(s.Root, filepath.FromSlash(clean))

	rel, err := filepath.Rel(s.Root, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", ErrOutsideRoot
	}
	return full, nil
}

// Put writes to a temp file in the target directory and renames it into
// place, so readers never see a half-written image.
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	staged, err := s.Stage(ctx, key, r)
	if err != nil {
		return "", err
	}
	if err := staged.Commit(); err != nil {
		staged.Abort()
		return "", err
	}
	return staged.Path, nil
}

// Stage writes r to a hidden temp file next to the final location. Nothing
// at the final path changes until Commit renames the temp file over it.
func (s *LocalStore) Stage(ctx context.Context, key string, r io.Reader) (*Staged, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("write: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("close: %w", err)
	}
	if err := ctx.Err(); err != nil {
		os.Remove(tmp)
		return nil, err
	}

	return &Staged{
		Path: s.PublicPrefix + path.Clean("/"+key),
		publish: func() error {
			if err := os.Rename(tmp, full); err != nil {
				return fmt.Errorf("rename: %w", err)
			}
			return nil
		},
		discard: func() { _ = os.Remove(tmp) },
	}, nil
}

// Same compares the files behind two public paths.
func (s *LocalStore) Same(a, b string) bool {
	if a == "" || b == "" {
		return a == b
	}
	return s.key(a) == s.key(b)
}

func (s *LocalStore) key(publicPath string) string {
	return path.Clean("/" + strings.TrimPrefix(publicPath, s.PublicPrefix))
}

// Remove deletes a file previously returned by Put. Missing files are not an
// error.
func (s *LocalStore) Remove(ctx context.Context, publicPath string) error {
	if publicPath == "" {
		return nil
	}
	full, err := s.resolve(s.key(publicPath))
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", publicPath, err)
	}
	return nil
}
