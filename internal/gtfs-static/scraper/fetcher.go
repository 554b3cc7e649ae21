package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/pkg/gtfs-static/models"
)

const DefaultRetries = 5

// Fetcher downloads a zipped feed and unpacks it into a temporary directory.
type Fetcher struct {
	downloader Downloader
	metadata   MetadataStore
	logger     logger.Logger
	retries    int
	newBackOff func() backoff.BackOff
}

func NewFetcher(downloader Downloader, metadata MetadataStore, retries int, logger logger.Logger) *Fetcher {
	return &Fetcher{
		downloader: downloader,
		metadata:   metadata,
		logger:     logger,
		retries:    retries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 2 * time.Second
			b.MaxInterval = time.Minute
			b.MaxElapsedTime = 10 * time.Minute
			return b
		},
	}
}

// Fetch downloads the feed at url and returns the directory holding its
// tables; the caller removes it when done. Unless force is set, the request
// is conditional on the last successful download and ErrNotModified is
// returned when the server has nothing new.
func (f *Fetcher) Fetch(ctx context.Context, url string, force bool) (string, error) {
	var prev *models.FeedMetadata
	if !force {
		meta, err := f.metadata.Load(url)
		if err != nil {
			f.logger.Warn("Ignoring unreadable feed metadata", "error", err)
		}
		prev = meta
	}

	workDir, err := os.MkdirTemp("", "gtfs-download-")
	if err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}
	defer os.RemoveAll(workDir)
	archive := filepath.Join(workDir, "feed.zip")

	b := backoff.WithContext(backoff.WithMaxRetries(f.newBackOff(), uint64(f.retries)), ctx)
	meta, err := backoff.RetryNotifyWithData(
		func() (*models.FeedMetadata, error) {
			meta, err := f.downloader.Download(ctx, url, archive, prev)
			if err == nil {
				return meta, nil
			}
			var statusErr *StatusError
			if errors.Is(err, ErrNotModified) || (errors.As(err, &statusErr) && !statusErr.Retryable()) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		},
		b,
		func(err error, d time.Duration) {
			f.logger.Warn("Download failed, retrying", "url", url, "retry_in", d.String(), "error", err)
		},
	)
	if err != nil {
		if errors.Is(err, ErrNotModified) {
			return "", err
		}
		return "", fmt.Errorf("downloading feed: %w", err)
	}

	feedDir, err := os.MkdirTemp("", "gtfs-feed-")
	if err != nil {
		return "", fmt.Errorf("creating feed directory: %w", err)
	}
	n, err := Extract(archive, feedDir)
	if err != nil {
		os.RemoveAll(feedDir)
		return "", fmt.Errorf("extracting feed: %w", err)
	}
	f.logger.Info("Feed extracted", "dir", feedDir, "files", n)

	if err := f.metadata.Save(meta); err != nil {
		f.logger.Warn("Failed to store feed metadata", "error", err)
	}
	return feedDir, nil
}
