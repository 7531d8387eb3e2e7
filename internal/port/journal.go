package port

import (
	"context"
	"time"

	"github.com/vertextoedge/tidf-puller/internal/domain"
)

// RunRecord is a stored run summary without its outcomes
type RunRecord struct {
	RunID         string
	ReferenceDate string
	StartedAt     time.Time
	FinishedAt    time.Time
	Total         int
	Succeeded     int
	Failed        int
}

// RunJournal is an append-only audit log of completed runs. It is never
// consulted when planning a run.
type RunJournal interface {
	// RecordRun stores a summary and all of its outcomes
	RecordRun(ctx context.Context, summary *domain.RunSummary) error

	// ListRuns returns up to limit runs, newest first
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// GetRunOutcomes returns the outcomes of one run in job order
	GetRunOutcomes(ctx context.Context, runID string) ([]domain.DownloadOutcome, error)

	// PruneRuns deletes runs started before now-olderThan
	// Returns the number of runs deleted
	PruneRuns(ctx context.Context, olderThan time.Duration) (int, error)
}
