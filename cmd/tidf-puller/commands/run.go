package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/vertextoedge/tidf-puller/internal/adapter/feedapi"
	"github.com/vertextoedge/tidf-puller/internal/adapter/filesystem"
	"github.com/vertextoedge/tidf-puller/internal/domain"
	"github.com/vertextoedge/tidf-puller/internal/planner"
	"github.com/vertextoedge/tidf-puller/internal/service/fetcher"
	"github.com/vertextoedge/tidf-puller/internal/service/maintenance"
	"github.com/vertextoedge/tidf-puller/internal/service/report"
)

// RunAction downloads every configured feed for yesterday (UTC)
func RunAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	cfg := appCtx.Config
	log := appCtx.Logger

	plan, err := planner.Build(cfg.PlannerOptions(), time.Now())
	if err != nil {
		return configFailure(err)
	}

	fsManager := filesystem.NewManagerWithBufferSize(cfg.Download.GetBufferSize())
	if err := fsManager.CheckOutputDir(cfg.Download.OutputDir); err != nil {
		return configFailure(domain.NewConfigError("download.output_dir", err))
	}

	journal, err := appCtx.OpenJournal()
	if err != nil {
		return err
	}
	mirror, err := appCtx.OpenMirror(ctx)
	if err != nil {
		return err
	}

	// Leftovers of interrupted runs
	maintenance.New(&maintenance.Config{
		OutputDir:        cfg.Download.OutputDir,
		TempFileMaxAge:   cfg.Maintenance.GetTempFileMaxAge(),
		JournalRetention: cfg.Maintenance.GetJournalRetention(),
	}, fsManager, journal, log).Sweep(ctx)

	client := feedapi.NewClient(&feedapi.ClientConfig{
		RequestTimeout:  cfg.FeedAPI.GetRequestTimeout(),
		SkipTLSVerify:   cfg.FeedAPI.SkipTLSVerify,
		MaxConnsPerHost: cfg.Download.MaxConcurrent,
	})

	log.Info("starting run",
		zap.String("reference_date", plan.ReferenceDate),
		zap.Int("jobs", len(plan.Jobs)),
		zap.Int("max_concurrent", cfg.Download.MaxConcurrent),
		zap.String("output_dir", cfg.Download.OutputDir))

	f := fetcher.New(
		&fetcher.Config{MaxConcurrent: cfg.Download.MaxConcurrent},
		client,
		fsManager,
		mirror,
		report.NewConsole(appCtx.Out, appCtx.NoColor),
		log,
	)
	summary := f.Run(ctx, plan.ReferenceDate, plan.Jobs)

	if journal != nil {
		// Record even when the run was interrupted
		if err := journal.RecordRun(context.WithoutCancel(ctx), summary); err != nil {
			log.Error("failed to record run", zap.String("run_id", summary.RunID), zap.Error(err))
		}
	}

	if !summary.OK() {
		return &exitError{
			code: ExitJobFailures,
			err:  fmt.Errorf("%d of %d downloads failed", summary.Failed, summary.Total()),
		}
	}
	return nil
}
