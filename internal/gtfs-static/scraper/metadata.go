package scraper

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/busurbano-data/pkg/gtfs-static/models"
)

const metadataFile = ".feed-meta.json"

// FileMetadataStore keeps the feed metadata as JSON next to the report
// output.
type FileMetadataStore struct {
	path string
}

func NewFileMetadataStore(dir string) *FileMetadataStore {
	return &FileMetadataStore{path: filepath.Join(dir, metadataFile)}
}

// Load returns nil without error when nothing was stored yet or the stored
// entry belongs to another URL.
func (s *FileMetadataStore) Load(url string) (*models.FeedMetadata, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading feed metadata: %w", err)
	}

	var meta models.FeedMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decoding feed metadata %s: %w", s.path, err)
	}
	if meta.URL != url {
		return nil, nil
	}
	return &meta, nil
}

func (s *FileMetadataStore) Save(meta *models.FeedMetadata) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding feed metadata: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing feed metadata: %w", err)
	}
	return os.Rename(tmp, s.path)
}
