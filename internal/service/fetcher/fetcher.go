// Package fetcher runs every download job of a run concurrently and gathers
// their outcomes into a RunSummary.
package fetcher

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/vertextoedge/tidf-puller/internal/domain"
	"github.com/vertextoedge/tidf-puller/internal/port"
)

// Config contains fetcher configuration
type Config struct {
	// MaxConcurrent caps in-flight downloads. 0 means one per job.
	MaxConcurrent int
}

// DefaultConfig returns default fetcher configuration
func DefaultConfig() *Config {
	return &Config{MaxConcurrent: 0}
}

// Fetcher fans jobs out to one goroutine each and waits for all of them
type Fetcher struct {
	config     *Config
	downloader *Downloader
	reporter   port.Reporter
	logger     *zap.Logger

	// reportSeq numbers outcomes in completion order
	reportSeq atomic.Int64
}

// New creates a new Fetcher. mirror and reporter may be nil; pass an untyped
// nil, a nil pointer wrapped in the interface is called like any other value.
func New(
	cfg *Config,
	client port.FeedClient,
	fs port.FileSystem,
	mirror port.Mirror,
	reporter port.Reporter,
	logger *zap.Logger,
) *Fetcher {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxConcurrent < 0 {
		cfg.MaxConcurrent = 0
	}

	return &Fetcher{
		config:     cfg,
		downloader: NewDownloader(client, fs, mirror, logger),
		reporter:   reporter,
		logger:     logger,
	}
}

// Run executes all jobs and returns once every job has reached a terminal
// state. A failing job never affects its siblings.
func (f *Fetcher) Run(ctx context.Context, referenceDate string, jobs []domain.DownloadJob) *domain.RunSummary {
	runID := domain.NewRunID()
	logger := f.logger.With(zap.String("run_id", runID))
	startedAt := time.Now()

	logger.Info("run started",
		zap.String("reference_date", referenceDate),
		zap.Int("jobs", len(jobs)),
		zap.Int("max_concurrent", f.config.MaxConcurrent))

	if f.reporter != nil {
		f.reporter.Start(referenceDate, len(jobs))
	}

	var sem *semaphore.Weighted
	if f.config.MaxConcurrent > 0 {
		sem = semaphore.NewWeighted(int64(f.config.MaxConcurrent))
	}

	// Each slot is written by exactly one goroutine
	outcomes := make([]domain.DownloadOutcome, len(jobs))

	// No SetLimit and no WithContext: every job is launched up front and
	// a job error must not cancel the others.
	var g errgroup.Group
	for i := range jobs {
		g.Go(func() error {
			outcomes[i] = f.execute(ctx, sem, jobs[i], logger)
			return nil
		})
	}
	_ = g.Wait()

	summary := domain.NewRunSummary(runID, referenceDate, startedAt, time.Now(), outcomes)

	logger.Info("run finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration()))

	if f.reporter != nil {
		f.reporter.Summary(summary)
	}
	return summary
}

// execute drives one job through Pending -> InFlight -> terminal
func (f *Fetcher) execute(ctx context.Context, sem *semaphore.Weighted, job domain.DownloadJob, logger *zap.Logger) domain.DownloadOutcome {
	state := domain.JobStatePending
	start := time.Now()

	var written int64
	var err error
	if sem != nil {
		err = sem.Acquire(ctx, 1)
		if err != nil {
			err = domain.NewTransportError("wait for download slot", err)
		} else {
			defer sem.Release(1)
		}
	}

	state = f.transition(state, domain.JobStateInFlight, job, logger)
	if err == nil {
		written, err = f.downloader.Download(ctx, job)
	}

	outcome := domain.OutcomeFromError(job, err)
	outcome.State = f.transition(state, outcome.State, job, logger)
	outcome.Bytes = written
	outcome.Duration = time.Since(start)
	outcome.ReportSeq = f.reportSeq.Add(1)

	if outcome.Succeeded() {
		logger.Debug("job succeeded",
			zap.Int64("report_seq", outcome.ReportSeq),
			zap.String("feed", job.Feed.String()),
			zap.Duration("duration", outcome.Duration))
	} else {
		logger.Error("job failed",
			zap.Int64("report_seq", outcome.ReportSeq),
			zap.String("feed", job.Feed.String()),
			zap.String("status", string(outcome.Status)),
			zap.Int("http_status", outcome.HTTPStatus),
			zap.Error(err))
	}

	if f.reporter != nil {
		f.reporter.JobDone(outcome)
	}
	return outcome
}

func (f *Fetcher) transition(from, to domain.JobState, job domain.DownloadJob, logger *zap.Logger) domain.JobState {
	next, err := from.Transition(to)
	if err != nil {
		// Unreachable unless the state table and execute disagree
		logger.Error("illegal job state change",
			zap.String("feed", job.Feed.String()),
			zap.Error(err))
		return to
	}
	return next
}
