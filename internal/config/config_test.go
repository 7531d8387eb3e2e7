package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertextoedge/tidf-puller/internal/domain"
)

// clearEnv blanks every variable Load consults so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"TIDF_API_KEY", "TIDF_FEEDAPI_API_KEY", LegacyAPIKeyEnv,
		"TIDF_OUTPUT_DIR", "TIDF_DOWNLOAD_OUTPUT_DIR",
		"TIDF_FEEDAPI_BASE_URL", "TIDF_DOWNLOAD_MAX_CONCURRENT",
		"TIDF_DOWNLOAD_FEEDS", "TIDF_LOGGING_LEVEL", "TIDF_LOGGING_FORMAT",
		"TIDF_JOURNAL_PATH", "TIDF_MIRROR_URL",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIDF_API_KEY", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.FeedAPI.BaseURL)
	assert.Equal(t, "secret", cfg.FeedAPI.APIKey)
	assert.Equal(t, 10*time.Minute, cfg.FeedAPI.GetRequestTimeout())
	assert.False(t, cfg.FeedAPI.SkipTLSVerify)
	assert.Equal(t, "./tidf", cfg.Download.OutputDir)
	assert.Equal(t, 0, cfg.Download.MaxConcurrent)
	assert.Equal(t, 256*1024, cfg.Download.GetBufferSize())
	assert.Len(t, cfg.Download.Feeds, len(domain.DefaultFeeds))
	assert.Equal(t, "", cfg.Mirror.URL)
	assert.Equal(t, "", cfg.Journal.Path)
	assert.Equal(t, 24*time.Hour, cfg.Maintenance.GetTempFileMaxAge())
	assert.Equal(t, 720*time.Hour, cfg.Maintenance.GetJournalRetention())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_EmptyPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIDF_API_KEY", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.FeedAPI.BaseURL)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
feedapi:
  base_url: "https://feeds.example.com/daily/"
  api_key: "from-file"
  request_timeout: "30s"
download:
  output_dir: "/srv/tidf"
  max_concurrent: 4
  buffer_size_kb: 64
  feeds:
    - malicious-ipv4
    - phishing-urls
journal:
  path: "/srv/tidf/journal.db"
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://feeds.example.com/daily/", cfg.FeedAPI.BaseURL)
	assert.Equal(t, "from-file", cfg.FeedAPI.APIKey)
	assert.Equal(t, 30*time.Second, cfg.FeedAPI.GetRequestTimeout())
	assert.Equal(t, "/srv/tidf", cfg.Download.OutputDir)
	assert.Equal(t, 4, cfg.Download.MaxConcurrent)
	assert.Equal(t, 64*1024, cfg.Download.GetBufferSize())
	assert.Equal(t, []string{"malicious-ipv4", "phishing-urls"}, cfg.Download.Feeds)
	assert.Equal(t, "/srv/tidf/journal.db", cfg.Journal.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
feedapi:
  api_key: "from-file"
download:
  output_dir: "/srv/tidf"
`)
	t.Setenv("TIDF_API_KEY", "from-env")
	t.Setenv("TIDF_OUTPUT_DIR", "/data/feeds")
	t.Setenv("TIDF_DOWNLOAD_MAX_CONCURRENT", "8")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.FeedAPI.APIKey)
	assert.Equal(t, "/data/feeds", cfg.Download.OutputDir)
	assert.Equal(t, 8, cfg.Download.MaxConcurrent)
}

func TestLoad_LegacyAPIKeyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(LegacyAPIKeyEnv, "legacy")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.FeedAPI.APIKey)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
	assert.ErrorIs(t, err, domain.ErrEmptyAPIKey)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIDF_API_KEY", "secret")
	path := writeConfig(t, "download: [unterminated\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			FeedAPI: FeedAPIConfig{
				BaseURL:        DefaultBaseURL,
				APIKey:         "secret",
				RequestTimeout: "10m",
			},
			Download: DownloadConfig{
				OutputDir: "./tidf",
				Feeds:     []string{"malicious-ipv4"},
			},
			Maintenance: MaintenanceConfig{
				TempFileMaxAge:   "24h",
				JournalRetention: "720h",
			},
			Logging: LoggingConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		field   string
		wantErr bool
	}{
		{"valid", func(c *Config) {}, "", false},
		{"negative concurrency", func(c *Config) { c.Download.MaxConcurrent = -1 }, "download.max_concurrent", true},
		{"negative buffer", func(c *Config) { c.Download.BufferSizeKB = -1 }, "download.buffer_size_kb", true},
		{"bad timeout", func(c *Config) { c.FeedAPI.RequestTimeout = "soon" }, "feedapi.request_timeout", true},
		{"negative retention", func(c *Config) { c.Maintenance.JournalRetention = "-1h" }, "maintenance.journal_retention", true},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level", true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format", true},
		{"empty feeds", func(c *Config) { c.Download.Feeds = nil }, "download.feeds", true},
		{"duplicate feeds", func(c *Config) { c.Download.Feeds = []string{"a", "a"} }, "download.feeds", true},
		{"no api key", func(c *Config) { c.FeedAPI.APIKey = "" }, "feedapi.api_key", true},
		{"base url without slash", func(c *Config) { c.FeedAPI.BaseURL = "https://x.example.com/feeds" }, "feedapi.base_url", true},
		{"empty output dir", func(c *Config) { c.Download.OutputDir = "" }, "download.output_dir", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ce *domain.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestPlannerOptions(t *testing.T) {
	cfg := &Config{
		FeedAPI:  FeedAPIConfig{BaseURL: DefaultBaseURL, APIKey: "k"},
		Download: DownloadConfig{OutputDir: "/out", Feeds: []string{"a", "b"}},
	}

	opts := cfg.PlannerOptions()
	assert.Equal(t, DefaultBaseURL, opts.BaseURL)
	assert.Equal(t, "k", opts.APIKey)
	assert.Equal(t, "/out", opts.OutputDir)
	assert.Equal(t, []domain.FeedIdentifier{"a", "b"}, opts.Feeds)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is set, even to ""
	require.NoError(t, os.Unsetenv("TIDF_API_KEY"))
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TIDF_API_KEY=dotenv-key\n"), 0600))

	require.NoError(t, LoadEnvFile(path))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.FeedAPI.APIKey)
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
	assert.NoError(t, LoadEnvFile(""))
}

func TestLoadEnvFile_DoesNotOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIDF_OUTPUT_DIR", "/from/shell")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TIDF_OUTPUT_DIR=/from/dotenv\n"), 0600))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "/from/shell", os.Getenv("TIDF_OUTPUT_DIR"))
}
