package port

import "github.com/vertextoedge/tidf-puller/internal/domain"

// Reporter receives run progress. Implementations must be safe for
// concurrent use; JobDone is called from worker goroutines in completion order.
type Reporter interface {
	Start(referenceDate string, total int)
	JobDone(outcome domain.DownloadOutcome)
	Summary(summary *domain.RunSummary)
}
