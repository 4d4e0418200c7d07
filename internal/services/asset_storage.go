package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AssetStorage writes generated images under a local root directory. The
// relative path is deterministic so reruns never collide and the frontend
// can derive URLs without a lookup.
type AssetStorage struct {
	root string
}

// NewAssetStorage creates an asset store rooted at dir
func NewAssetStorage(dir string) *AssetStorage {
	return &AssetStorage{root: dir}
}

// Save writes image bytes and returns the relative asset path in the form
// {companyId}/{contentItemId}/{providerTag}-{unixTimestamp}.{ext}.
func (s *AssetStorage) Save(companyID, contentItemID, providerTag string, data []byte, ext string) (string, error) {
	relPath := filepath.Join(companyID, contentItemID, fmt.Sprintf("%s-%d.%s", providerTag, time.Now().Unix(), ext))
	fullPath := filepath.Join(s.root, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}
	return filepath.ToSlash(relPath), nil
}
