package planner

import (
	"encoding/base64"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertextoedge/tidf-puller/internal/domain"
)

const testBaseURL = "https://feeds.example.com/datafeeds/Threat_Intelligence_Data_Feeds/"

func testOptions(dir string) Options {
	return Options{
		BaseURL:   testBaseURL,
		APIKey:    "secret",
		OutputDir: dir,
		Feeds:     []domain.FeedIdentifier{"malicious-ips.v4.csv", "hosts", "deny-domains"},
	}
}

func TestBuild_OneJobPerFeed(t *testing.T) {
	dir := filepath.Join("var", "tidf")
	now := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)

	plan, err := Build(testOptions(dir), now)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-14", plan.ReferenceDate)
	require.Len(t, plan.Jobs, 3)

	for i, feed := range []string{"malicious-ips.v4.csv", "hosts", "deny-domains"} {
		job := plan.Jobs[i]
		name := "tidf.2024-03-14.daily." + feed + ".gz"
		assert.Equal(t, i+1, job.Seq)
		assert.Equal(t, domain.FeedIdentifier(feed), job.Feed)
		assert.Equal(t, name, job.RemoteFileName)
		assert.Equal(t, testBaseURL+name, job.RemoteURL)
		assert.Equal(t, filepath.Join(dir, name), job.LocalPath)
		assert.Equal(t, "Basic c2VjcmV0OnNlY3JldA==", job.AuthHeader)
	}
}

func TestReferenceDate_IndependentOfTimeOfDay(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"just after midnight", time.Date(2024, 3, 1, 0, 0, 1, 0, time.UTC), "2024-02-29"},
		{"noon", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), "2024-02-29"},
		{"just before midnight", time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC), "2024-02-29"},
		{"new year", time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC), "2024-12-31"},
		// 2024-03-02 01:00 in UTC+5 is still 2024-03-01 in UTC
		{"non-UTC input uses UTC day", time.Date(2024, 3, 2, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)), "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReferenceDate(tt.now))
		})
	}
}

func TestAuthHeader(t *testing.T) {
	// base64("at_demo:at_demo")
	assert.Equal(t, "Basic YXRfZGVtbzphdF9kZW1v", AuthHeader("at_demo"))

	raw, err := base64.StdEncoding.DecodeString(AuthHeader("k3y")[len("Basic "):])
	require.NoError(t, err)
	assert.Equal(t, "k3y:k3y", string(raw))
}

func TestBuild_Deterministic(t *testing.T) {
	now := time.Date(2024, 7, 9, 8, 0, 0, 0, time.UTC)
	dir := t.TempDir()

	a, err := Build(testOptions(dir), now)
	require.NoError(t, err)
	b, err := Build(testOptions(dir), now)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestBuild_NoFilesystemSideEffects(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not-created")

	_, err := Build(testOptions(dir), time.Now())
	require.NoError(t, err)

	assert.NoDirExists(t, dir)
}

func TestBuild_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
		want   error
	}{
		{"empty feed list", func(o *Options) { o.Feeds = nil }, domain.ErrEmptyFeedList},
		{"blank feed", func(o *Options) { o.Feeds = []domain.FeedIdentifier{"hosts", " "} }, domain.ErrEmptyFeed},
		{"duplicate feed", func(o *Options) { o.Feeds = []domain.FeedIdentifier{"hosts", "hosts"} }, domain.ErrDuplicateFeed},
		{"empty api key", func(o *Options) { o.APIKey = "" }, domain.ErrEmptyAPIKey},
		{"empty base url", func(o *Options) { o.BaseURL = "" }, domain.ErrInvalidBaseURL},
		{"base url without trailing slash", func(o *Options) { o.BaseURL = "https://feeds.example.com/data" }, domain.ErrInvalidBaseURL},
		{"base url with bad scheme", func(o *Options) { o.BaseURL = "ftp://feeds.example.com/" }, domain.ErrInvalidBaseURL},
		{"relative base url", func(o *Options) { o.BaseURL = "/datafeeds/" }, domain.ErrInvalidBaseURL},
		{"empty output dir", func(o *Options) { o.OutputDir = "" }, domain.ErrEmptyOutputDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t.TempDir())
			tt.mutate(&opts)

			plan, err := Build(opts, time.Now())
			assert.Nil(t, plan)
			require.Error(t, err)
			assert.True(t, domain.IsConfigError(err))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
