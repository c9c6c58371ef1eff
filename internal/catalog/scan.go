package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"lstbot/internal/domain"
	"lstbot/internal/textutil"
)

// ClipExtensions lists the file types picked up by Scan
var ClipExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".gif":  true,
}

// Scan walks fsys for clip files. The sign id is the folded file name without
// extension and the parent directory, if any, becomes a tag. Duplicates are
// returned as well; New keeps the first one in walk order.
func Scan(fsys fs.FS) ([]domain.SignEntry, error) {
	var entries []domain.SignEntry

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !ClipExtensions[ext] {
			return nil
		}

		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		id := textutil.FoldText(name, domain.PivotLanguage)
		if id == "" {
			return nil
		}

		entry := domain.SignEntry{
			ID:            id,
			DisplayName:   name,
			Duration:      domain.DefaultClipDuration,
			TransitionIn:  domain.DefaultTransition,
			TransitionOut: domain.DefaultTransition,
			Format:        strings.TrimPrefix(ext, "."),
			File:          p,
		}
		if dir := path.Dir(p); dir != "." {
			entry.Tags = []string{textutil.FoldText(path.Base(dir), domain.PivotLanguage)}
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan clips: %w", err)
	}

	return entries, nil
}
