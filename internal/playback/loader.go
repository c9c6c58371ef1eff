package playback

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"lstbot/internal/domain"
)

// ErrNoAsset is returned for signs without an asset path
var ErrNoAsset = errors.New("sign has no asset")

// FileLoader resolves sign assets inside a clips directory
type FileLoader struct {
	fsys fs.FS
	root string
}

// NewFileLoader creates a loader for assets under dir
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{fsys: os.DirFS(dir), root: dir}
}

// NewFSLoader creates a loader over fsys. Sources are reported relative to root.
func NewFSLoader(fsys fs.FS, root string) *FileLoader {
	return &FileLoader{fsys: fsys, root: root}
}

// Load checks that the asset exists and is a regular file
func (l *FileLoader) Load(ctx context.Context, sign domain.SignEntry) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	if sign.File == "" {
		return Handle{}, fmt.Errorf("%s: %w", sign.ID, ErrNoAsset)
	}

	name := filepath.ToSlash(filepath.Clean(sign.File))
	if !fs.ValidPath(name) {
		return Handle{}, fmt.Errorf("%s: invalid asset path %q", sign.ID, sign.File)
	}

	info, err := fs.Stat(l.fsys, name)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to stat asset for %s: %w", sign.ID, err)
	}
	if !info.Mode().IsRegular() {
		return Handle{}, fmt.Errorf("%s: asset %q is not a regular file", sign.ID, name)
	}

	duration := sign.Duration
	if duration <= 0 {
		duration = domain.DefaultClipDuration
	}

	return Handle{
		SignID:   sign.ID,
		Source:   filepath.Join(l.root, filepath.FromSlash(name)),
		Duration: duration,
	}, nil
}
