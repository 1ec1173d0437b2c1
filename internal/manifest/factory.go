package manifest

import (
	"fmt"

	"destiny2-go/internal/d2"
)

// NewManifestFromSettings opens the manifest database named by settings.
func NewManifestFromSettings(settings d2.ManifestSettings, logger d2.Logger) (*SQLiteManifest, error) {
	path := settings.ManifestDBPath()
	if path == "" {
		return nil, fmt.Errorf("manifest db_path is not configured")
	}
	m, err := NewSQLiteManifest(path, logger)
	if err != nil {
		return nil, err
	}
	if err := m.SetCacheSize(settings.ManifestCacheSize()); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}
