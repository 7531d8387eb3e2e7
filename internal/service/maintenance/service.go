package maintenance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/tidf-puller/internal/port"
)

// Config contains maintenance service configuration
type Config struct {
	// OutputDir is scanned for abandoned temp files
	OutputDir string

	// TempFileMaxAge is the maximum age of temp files before cleanup
	TempFileMaxAge time.Duration

	// JournalRetention is how long recorded runs are kept
	JournalRetention time.Duration
}

// DefaultConfig returns default maintenance configuration
func DefaultConfig() *Config {
	return &Config{
		TempFileMaxAge:   24 * time.Hour,
		JournalRetention: 30 * 24 * time.Hour,
	}
}

// Result reports what a sweep removed
type Result struct {
	TempFilesRemoved int
	RunsPruned       int
}

// Service removes leftovers of earlier, interrupted runs
type Service struct {
	config  *Config
	fs      port.FileSystem
	journal port.RunJournal
	logger  *zap.Logger
}

// New creates a new maintenance Service. journal may be nil.
func New(cfg *Config, fs port.FileSystem, journal port.RunJournal, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.TempFileMaxAge == 0 {
		cfg.TempFileMaxAge = 24 * time.Hour
	}
	if cfg.JournalRetention == 0 {
		cfg.JournalRetention = 30 * 24 * time.Hour
	}

	return &Service{
		config:  cfg,
		fs:      fs,
		journal: journal,
		logger:  logger,
	}
}

// Sweep runs every cleanup once. Failures are logged and never returned.
func (s *Service) Sweep(ctx context.Context) Result {
	var res Result
	res.TempFilesRemoved = s.cleanupTempFiles()
	res.RunsPruned = s.pruneJournal(ctx)
	return res
}

// cleanupTempFiles removes old temporary files from the output directory
func (s *Service) cleanupTempFiles() int {
	if s.config.OutputDir == "" {
		return 0
	}
	fileCount, err := s.fs.CleanOldTempFiles(s.config.OutputDir, s.config.TempFileMaxAge)
	if err != nil {
		s.logger.Error("failed to cleanup old temp files", zap.Error(err))
	} else if fileCount > 0 {
		s.logger.Info("cleaned up old temp files", zap.Int("count", fileCount))
	}
	return fileCount
}

// pruneJournal removes runs older than the retention period
func (s *Service) pruneJournal(ctx context.Context) int {
	if s.journal == nil {
		return 0
	}
	pruned, err := s.journal.PruneRuns(ctx, s.config.JournalRetention)
	if err != nil {
		s.logger.Error("failed to prune run journal", zap.Error(err))
	} else if pruned > 0 {
		s.logger.Info("pruned old runs from journal", zap.Int("count", pruned))
	}
	return pruned
}
