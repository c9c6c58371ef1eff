package service

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"lstbot/internal/catalog"
	"lstbot/internal/domain"
	"lstbot/internal/repository"

	"go.uber.org/zap"
)

// CatalogSource tells LoadCatalog where to find signs when the database is empty
type CatalogSource struct {
	Clips        fs.FS  // scanned for clip files, may be nil
	Manifest     fs.FS  // holds ManifestName, may be nil
	ManifestName string
}

// LoadCatalog reads the sign catalog from storage. An empty table is filled
// from the manifest, or else from a scan of the clips directory, and the
// imported signs are stored for the next start.
func LoadCatalog(signs repository.SignRepository, src CatalogSource, logger *zap.Logger) (*catalog.Catalog, error) {
	entries, err := signs.ListSigns()
	if err != nil {
		return nil, fmt.Errorf("failed to list signs: %w", err)
	}
	if len(entries) > 0 {
		logger.Info("Catalog loaded from database", zap.Int("signs", len(entries)))
		return catalog.New(entries, logger), nil
	}

	entries, origin, err := ImportEntries(src)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		logger.Warn("Catalog is empty")
		return catalog.New(nil, logger), nil
	}

	c := catalog.New(entries, logger)
	n, err := signs.UpsertSigns(c.Entries())
	if err != nil {
		return nil, fmt.Errorf("failed to store imported signs: %w", err)
	}

	logger.Info("Catalog imported",
		zap.String("origin", origin),
		zap.Int("signs", n))
	return c, nil
}

// ImportEntries reads signs from the manifest when one is set, or else from a
// scan of the clips directory. It also reports which source was used.
func ImportEntries(src CatalogSource) ([]domain.SignEntry, string, error) {
	if src.Manifest != nil && src.ManifestName != "" {
		entries, err := catalog.LoadManifest(src.Manifest, src.ManifestName)
		if err != nil {
			return nil, "", err
		}
		return entries, "manifest", nil
	}
	if src.Clips != nil {
		entries, err := catalog.Scan(src.Clips)
		if err != nil {
			return nil, "", err
		}
		return entries, "scan", nil
	}
	return nil, "", nil
}

// DirSource builds a CatalogSource from a clips directory and an optional
// manifest path. Empty arguments leave the matching source unset.
func DirSource(clipsDir, manifestPath string) CatalogSource {
	var src CatalogSource
	if clipsDir != "" {
		src.Clips = os.DirFS(clipsDir)
	}
	if manifestPath != "" {
		src.Manifest = os.DirFS(filepath.Dir(manifestPath))
		src.ManifestName = filepath.Base(manifestPath)
	}
	return src
}
