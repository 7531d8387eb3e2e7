package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/vertextoedge/tidf-puller/internal/planner"
)

// PlanAction prints the jobs a run would execute. Credentials are never printed.
func PlanAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	plan, err := planner.Build(appCtx.Config.PlannerOptions(), time.Now())
	if err != nil {
		return configFailure(err)
	}

	fmt.Fprintf(appCtx.Out, "Reference date: %s (%d files)\n", plan.ReferenceDate, len(plan.Jobs))

	table := tablewriter.NewWriter(appCtx.Out)
	table.Header("Seq", "Feed", "URL", "Local Path")
	for _, job := range plan.Jobs {
		if err := table.Append(fmt.Sprintf("%d", job.Seq), job.Feed.String(), job.RemoteURL, job.LocalPath); err != nil {
			return err
		}
	}
	return table.Render()
}
