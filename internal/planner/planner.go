// Package planner turns static feed configuration into concrete download
// jobs. It performs no network or filesystem access.
package planner

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/vertextoedge/tidf-puller/internal/domain"
)

// DateLayout is the layout of the reference date embedded in feed file names
const DateLayout = "2006-01-02"

// Options holds everything needed to build a run's jobs
type Options struct {
	BaseURL   string
	APIKey    string
	OutputDir string
	Feeds     []domain.FeedIdentifier
}

// Plan is the ordered job list for one reference date
type Plan struct {
	ReferenceDate string
	Jobs          []domain.DownloadJob
}

// Validate checks the options and returns a *domain.ConfigError on the first problem
func (o *Options) Validate() error {
	if len(o.Feeds) == 0 {
		return domain.NewConfigError("download.feeds", domain.ErrEmptyFeedList)
	}
	seen := make(map[domain.FeedIdentifier]struct{}, len(o.Feeds))
	for _, f := range o.Feeds {
		if strings.TrimSpace(string(f)) == "" {
			return domain.NewConfigError("download.feeds", domain.ErrEmptyFeed)
		}
		if _, dup := seen[f]; dup {
			return domain.NewConfigError("download.feeds", fmt.Errorf("%w: %s", domain.ErrDuplicateFeed, f))
		}
		seen[f] = struct{}{}
	}

	if o.APIKey == "" {
		return domain.NewConfigError("feedapi.api_key", domain.ErrEmptyAPIKey)
	}
	if err := validateBaseURL(o.BaseURL); err != nil {
		return domain.NewConfigError("feedapi.base_url", err)
	}
	if o.OutputDir == "" {
		return domain.NewConfigError("download.output_dir", domain.ErrEmptyOutputDir)
	}
	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty", domain.ErrInvalidBaseURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", domain.ErrInvalidBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", domain.ErrInvalidBaseURL)
	}
	// File names are appended verbatim
	if !strings.HasSuffix(raw, "/") {
		return fmt.Errorf("%w: must end with /", domain.ErrInvalidBaseURL)
	}
	return nil
}

// ReferenceDate returns the UTC calendar day before now, formatted as YYYY-MM-DD
func ReferenceDate(now time.Time) string {
	return now.UTC().AddDate(0, 0, -1).Format(DateLayout)
}

// RemoteFileName returns the provider file name for a feed and date
func RemoteFileName(date string, feed domain.FeedIdentifier) string {
	return "tidf." + date + ".daily." + string(feed) + ".gz"
}

// AuthHeader returns the Basic credential for key, which the provider expects
// as both user name and password.
func AuthHeader(apiKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey+":"+apiKey))
}

// Build produces one job per feed, in configured order
func Build(opts Options, now time.Time) (*Plan, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	date := ReferenceDate(now)
	auth := AuthHeader(opts.APIKey)

	jobs := make([]domain.DownloadJob, 0, len(opts.Feeds))
	for i, feed := range opts.Feeds {
		name := RemoteFileName(date, feed)
		jobs = append(jobs, domain.DownloadJob{
			Seq:            i + 1,
			Feed:           feed,
			RemoteFileName: name,
			RemoteURL:      opts.BaseURL + name,
			LocalPath:      filepath.Join(opts.OutputDir, name),
			AuthHeader:     auth,
		})
	}

	return &Plan{ReferenceDate: date, Jobs: jobs}, nil
}
