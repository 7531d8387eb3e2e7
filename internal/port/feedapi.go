package port

import (
	"context"
	"io"

	"github.com/vertextoedge/tidf-puller/internal/domain"
)

// FeedClient fetches feed files from the provider
type FeedClient interface {
	// Fetch issues the authenticated GET for job.
	// On a 2xx response the caller owns and must close the body.
	// Non-2xx responses return *domain.HTTPError, network failures *domain.TransportError.
	Fetch(ctx context.Context, job domain.DownloadJob) (io.ReadCloser, error)
}
