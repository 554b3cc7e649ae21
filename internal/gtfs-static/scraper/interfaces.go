package scraper

import (
	"context"

	"github.com/busurbano-data/pkg/gtfs-static/models"
)

// Downloader fetches url into destPath. When prev is non-nil its validators
// are sent so the server may answer 304, reported as ErrNotModified. The
// returned metadata carries the validators of the new response.
type Downloader interface {
	Download(ctx context.Context, url string, destPath string, prev *models.FeedMetadata) (*models.FeedMetadata, error)
}

// MetadataStore remembers the validators of the last successful download.
type MetadataStore interface {
	Load(url string) (*models.FeedMetadata, error)
	Save(meta *models.FeedMetadata) error
}
