package media

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Pipeline ties an ImageStore to a database write so that a failed write
// never leaves an orphan file and a successful replacement never leaves the
// previous file behind.
type Pipeline struct {
	Store  ImageStore
	Logger *zap.SugaredLogger
}

func NewPipeline(store ImageStore, logger *zap.SugaredLogger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pipeline{Store: store, Logger: logger}
}

// Replace stores r under key, then calls persist with the new path.
//   - persist fails: the new object is dropped and the persist error is
//     returned. A Stager store never touched oldPath; on other stores an
//     upload that landed on the same object as oldPath is kept, since it
//     already replaced the old bytes.
//   - persist succeeds: oldPath is removed unless the store reports it is
//     the same object as the new path. A failure there is logged, not
//     returned; the row already points at the new file.
func (p *Pipeline) Replace(
	ctx context.Context,
	key string,
	r io.Reader,
	oldPath string,
	persist func(ctx context.Context, newPath string) error,
) (string, error) {
	if st, ok := p.Store.(Stager); ok {
		return p.replaceStaged(ctx, st, key, r, oldPath, persist)
	}

	newPath, err := p.Store.Put(ctx, key, r)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	if err := persist(ctx, newPath); err != nil {
		if !p.Store.Same(oldPath, newPath) {
			p.Discard(context.WithoutCancel(ctx), newPath)
		}
		return "", err
	}

	p.discardOld(ctx, oldPath, newPath)
	return newPath, nil
}

func (p *Pipeline) replaceStaged(
	ctx context.Context,
	st Stager,
	key string,
	r io.Reader,
	oldPath string,
	persist func(ctx context.Context, newPath string) error,
) (string, error) {
	staged, err := st.Stage(ctx, key, r)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	if err := persist(ctx, staged.Path); err != nil {
		staged.Abort()
		return "", err
	}
	if err := staged.Commit(); err != nil {
		staged.Abort()
		p.Logger.Errorw("image publish failed after row update", "path", staged.Path, "error", err)
		return "", fmt.Errorf("publish image: %w", err)
	}

	p.discardOld(ctx, oldPath, staged.Path)
	return staged.Path, nil
}

func (p *Pipeline) discardOld(ctx context.Context, oldPath, newPath string) {
	if oldPath != "" && !p.Store.Same(oldPath, newPath) {
		p.Discard(context.WithoutCancel(ctx), oldPath)
	}
}

// Discard removes path, logging instead of failing. Used for cleanup after
// partial failures and after row deletes.
func (p *Pipeline) Discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := p.Store.Remove(ctx, path); err != nil {
		p.Logger.Warnw("image cleanup failed", "path", path, "error", err)
		return
	}
	p.Logger.Infow("image removed", "path", path)
}
