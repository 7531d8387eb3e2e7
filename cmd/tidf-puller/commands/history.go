package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/vertextoedge/tidf-puller/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// HistoryAction lists recorded runs, or the outcomes of one run with --run
func HistoryAction(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	runID := cmd.String("run")

	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	journal, err := appCtx.OpenJournal()
	if err != nil {
		return err
	}
	if journal == nil {
		return configFailure(domain.NewConfigError("journal.path", errors.New("journal is disabled")))
	}

	if runID != "" {
		outcomes, err := journal.GetRunOutcomes(ctx, runID)
		if err != nil {
			if errors.Is(err, domain.ErrRunNotFound) {
				return configFailure(err)
			}
			return setupFailure(err)
		}
		return renderOutcomes(appCtx, outcomes)
	}

	runs, err := journal.ListRuns(ctx, limit)
	if err != nil {
		return setupFailure(err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(appCtx.Out, "No runs recorded")
		return nil
	}

	table := tablewriter.NewWriter(appCtx.Out)
	table.Header("Run ID", "Date", "Started", "Total", "OK", "Failed", "Took")
	for _, r := range runs {
		err := table.Append(
			r.RunID,
			r.ReferenceDate,
			r.StartedAt.Local().Format(timeLayout),
			fmt.Sprintf("%d", r.Total),
			fmt.Sprintf("%d", r.Succeeded),
			fmt.Sprintf("%d", r.Failed),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func renderOutcomes(appCtx *AppContext, outcomes []domain.DownloadOutcome) error {
	table := tablewriter.NewWriter(appCtx.Out)
	table.Header("Seq", "Feed", "Result", "Size", "Took", "Message")
	for _, o := range outcomes {
		result := string(o.Status)
		if o.HTTPStatus != 0 {
			result = fmt.Sprintf("%s %d", o.Status, o.HTTPStatus)
		}
		size := "-"
		if o.Succeeded() {
			size = humanize.IBytes(uint64(o.Bytes))
		}
		err := table.Append(
			fmt.Sprintf("%d", o.Job.Seq),
			o.Job.Feed.String(),
			result,
			size,
			o.Duration.Round(time.Millisecond).String(),
			o.Message,
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}
