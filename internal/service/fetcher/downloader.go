package fetcher

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vertextoedge/tidf-puller/internal/domain"
	"github.com/vertextoedge/tidf-puller/internal/port"
)

// Downloader executes a single job: fetch, persist, optionally mirror
type Downloader struct {
	client port.FeedClient
	fs     port.FileSystem
	mirror port.Mirror
	logger *zap.Logger
}

// NewDownloader creates a new Downloader. mirror may be nil.
func NewDownloader(client port.FeedClient, fs port.FileSystem, mirror port.Mirror, logger *zap.Logger) *Downloader {
	return &Downloader{
		client: client,
		fs:     fs,
		mirror: mirror,
		logger: logger,
	}
}

// Download fetches job.RemoteURL and writes the body to job.LocalPath.
// Returns the bytes written. On error nothing is left at job.LocalPath.
func (d *Downloader) Download(ctx context.Context, job domain.DownloadJob) (int64, error) {
	d.logger.Debug("downloading feed",
		zap.Int("seq", job.Seq),
		zap.String("feed", job.Feed.String()),
		zap.String("url", job.RemoteURL))

	body, err := d.client.Fetch(ctx, job)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", job.RemoteFileName, err)
	}
	defer body.Close()

	written, err := d.fs.WriteFile(job.LocalPath, body)
	if err != nil {
		return 0, domain.NewTransportError("write "+job.LocalPath, err)
	}

	if d.mirror != nil {
		// Mirroring is best effort; the local copy is the job's result
		if err := d.mirror.Put(ctx, job.RemoteFileName, job.LocalPath); err != nil {
			d.logger.Warn("failed to mirror feed",
				zap.String("feed", job.Feed.String()),
				zap.Error(err))
		}
	}

	d.logger.Info("feed saved",
		zap.String("feed", job.Feed.String()),
		zap.String("path", job.LocalPath),
		zap.Int64("size", written))

	return written, nil
}
