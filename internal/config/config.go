package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/vertextoedge/tidf-puller/internal/domain"
	"github.com/vertextoedge/tidf-puller/internal/planner"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "TIDF"

// LegacyAPIKeyEnv is the environment variable older deployments use for the API key
const LegacyAPIKeyEnv = "WXAAPIKEY"

// DefaultBaseURL is the provider's data feed root
const DefaultBaseURL = "https://threat-intelligence.whoisxmlapi.com/datafeeds/Threat_Intelligence_Data_Feeds/"

// Config represents the entire application configuration
type Config struct {
	FeedAPI     FeedAPIConfig     `mapstructure:"feedapi"`
	Download    DownloadConfig    `mapstructure:"download"`
	Mirror      MirrorConfig      `mapstructure:"mirror"`
	Journal     JournalConfig     `mapstructure:"journal"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// FeedAPIConfig contains feed provider settings
type FeedAPIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	RequestTimeout string `mapstructure:"request_timeout"`
	SkipTLSVerify  bool   `mapstructure:"skip_tls_verify"`
}

// DownloadConfig contains download settings
type DownloadConfig struct {
	OutputDir     string   `mapstructure:"output_dir"`
	MaxConcurrent int      `mapstructure:"max_concurrent"` // 0 = unbounded
	BufferSizeKB  int      `mapstructure:"buffer_size_kb"`
	Feeds         []string `mapstructure:"feeds"`
}

// MirrorConfig contains blob mirror settings
type MirrorConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

// JournalConfig contains run journal settings
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// MaintenanceConfig contains housekeeping settings
type MaintenanceConfig struct {
	TempFileMaxAge   string `mapstructure:"temp_file_max_age"`
	JournalRetention string `mapstructure:"journal_retention"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from the specified file path. A missing file is
// not an error; defaults and environment variables still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("feedapi.api_key", EnvPrefix+"_API_KEY", EnvPrefix+"_FEEDAPI_API_KEY", LegacyAPIKeyEnv); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}
	if err := v.BindEnv("download.output_dir", EnvPrefix+"_OUTPUT_DIR", EnvPrefix+"_DOWNLOAD_OUTPUT_DIR"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, domain.NewConfigError("", fmt.Errorf("failed to read config file: %w", err))
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewConfigError("", fmt.Errorf("failed to stat config file: %w", err))
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, domain.NewConfigError("", fmt.Errorf("failed to unmarshal config: %w", err))
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	feeds := make([]string, len(domain.DefaultFeeds))
	for i, f := range domain.DefaultFeeds {
		feeds[i] = string(f)
	}

	v.SetDefault("feedapi.base_url", DefaultBaseURL)
	v.SetDefault("feedapi.api_key", "")
	v.SetDefault("feedapi.request_timeout", "10m")
	v.SetDefault("feedapi.skip_tls_verify", false)
	v.SetDefault("download.output_dir", "./tidf")
	v.SetDefault("download.max_concurrent", 0)
	v.SetDefault("download.buffer_size_kb", 256)
	v.SetDefault("download.feeds", feeds)
	v.SetDefault("mirror.url", "")
	v.SetDefault("mirror.prefix", "")
	v.SetDefault("journal.path", "")
	v.SetDefault("maintenance.temp_file_max_age", "24h")
	v.SetDefault("maintenance.journal_retention", "720h")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate download config
	if c.Download.MaxConcurrent < 0 {
		return domain.NewConfigError("download.max_concurrent", errors.New("must not be negative"))
	}
	if c.Download.BufferSizeKB < 0 {
		return domain.NewConfigError("download.buffer_size_kb", errors.New("must not be negative"))
	}

	// Validate durations
	if err := validateDuration("feedapi.request_timeout", c.FeedAPI.RequestTimeout); err != nil {
		return err
	}
	if err := validateDuration("maintenance.temp_file_max_age", c.Maintenance.TempFileMaxAge); err != nil {
		return err
	}
	if err := validateDuration("maintenance.journal_retention", c.Maintenance.JournalRetention); err != nil {
		return err
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return domain.NewConfigError("logging.level", fmt.Errorf("invalid level %q", c.Logging.Level))
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return domain.NewConfigError("logging.format", fmt.Errorf("invalid format %q", c.Logging.Format))
	}

	opts := c.PlannerOptions()
	return opts.Validate()
}

func validateDuration(field, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return domain.NewConfigError(field, err)
	}
	if d < 0 {
		return domain.NewConfigError(field, errors.New("must not be negative"))
	}
	return nil
}

// PlannerOptions returns the job planner inputs
func (c *Config) PlannerOptions() planner.Options {
	feeds := make([]domain.FeedIdentifier, len(c.Download.Feeds))
	for i, f := range c.Download.Feeds {
		feeds[i] = domain.FeedIdentifier(f)
	}
	return planner.Options{
		BaseURL:   c.FeedAPI.BaseURL,
		APIKey:    c.FeedAPI.APIKey,
		OutputDir: c.Download.OutputDir,
		Feeds:     feeds,
	}
}

// GetRequestTimeout returns the request timeout as time.Duration
func (c *FeedAPIConfig) GetRequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	if d == 0 {
		return 10 * time.Minute
	}
	return d
}

// GetBufferSize returns the copy buffer size in bytes
func (c *DownloadConfig) GetBufferSize() int {
	if c.BufferSizeKB <= 0 {
		return 256 * 1024
	}
	return c.BufferSizeKB * 1024
}

// GetTempFileMaxAge returns the temp file max age as time.Duration
func (c *MaintenanceConfig) GetTempFileMaxAge() time.Duration {
	d, _ := time.ParseDuration(c.TempFileMaxAge)
	if d == 0 {
		return 24 * time.Hour
	}
	return d
}

// GetJournalRetention returns the journal retention as time.Duration
func (c *MaintenanceConfig) GetJournalRetention() time.Duration {
	d, _ := time.ParseDuration(c.JournalRetention)
	if d == 0 {
		return 30 * 24 * time.Hour
	}
	return d
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment. A missing file is not an error. Variables already set win.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return domain.NewConfigError("", fmt.Errorf("failed to load env file: %w", err))
	}
	return nil
}
