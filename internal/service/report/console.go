package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/vertextoedge/tidf-puller/internal/domain"
	"github.com/vertextoedge/tidf-puller/internal/port"
)

// Console prints run progress for humans
type Console struct {
	mu  sync.Mutex
	out io.Writer

	ok   *color.Color
	fail *color.Color
	info *color.Color
}

// Ensure Console implements port.Reporter
var _ port.Reporter = (*Console)(nil)

// NewConsole creates a console reporter writing to out (default: os.Stdout).
// Colour is also disabled automatically when stdout is not a terminal.
func NewConsole(out io.Writer, noColor bool) *Console {
	if out == nil {
		out = os.Stdout
	}
	c := &Console{
		out:  out,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed),
		info: color.New(color.FgYellow),
	}
	if noColor {
		c.ok.DisableColor()
		c.fail.DisableColor()
		c.info.DisableColor()
	}
	return c
}

// Start prints the run banner
func (c *Console) Start(referenceDate string, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, "Downloading Threat Intel data feeds")
	c.info.Fprintf(c.out, "Preparing to download %d files for %s\n", total, referenceDate)
}

// JobDone prints one line for a finished job
func (c *Console) JobDone(o domain.DownloadOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := fmt.Sprintf("[%d] %s ...", o.ReportSeq, o.Job.Feed)
	switch o.Status {
	case domain.StatusSuccess:
		c.ok.Fprintf(c.out, "%s Success (%s -> %s)\n", prefix, humanize.IBytes(uint64(o.Bytes)), o.Job.LocalPath)
	case domain.StatusHTTPError:
		c.fail.Fprintf(c.out, "%s Failed: HTTP %d (%s)\n", prefix, o.HTTPStatus, o.Message)
	default:
		c.fail.Fprintf(c.out, "%s Failed: %s\n", prefix, o.Message)
	}
}

// Summary prints the aggregate line
func (c *Console) Summary(s *domain.RunSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.OK() {
		c.ok.Fprintf(c.out, "%d/%d files downloaded successfully (%s in %s)\n",
			s.Succeeded, s.Total(), humanize.IBytes(uint64(s.TotalBytes())), s.Duration().Round(time.Millisecond))
		return
	}

	c.fail.Fprintf(c.out, "%d of %d downloads failed, %d succeeded\n", s.Failed, s.Total(), s.Succeeded)
	for _, o := range s.Failures() {
		c.fail.Fprintf(c.out, "  - %s: %s\n", o.Job.Feed, o.Message)
	}
}
