package commands

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/vertextoedge/tidf-puller/internal/adapter/blobmirror"
	"github.com/vertextoedge/tidf-puller/internal/adapter/sqlite"
	"github.com/vertextoedge/tidf-puller/internal/config"
	"github.com/vertextoedge/tidf-puller/internal/domain"
	"github.com/vertextoedge/tidf-puller/internal/logger"
	"github.com/vertextoedge/tidf-puller/internal/port"
)

// Process exit codes
const (
	ExitOK          = 0
	ExitJobFailures = 1
	ExitConfigError = 2
	ExitSetupError  = 3
)

// exitError carries the process exit code for a failed command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func configFailure(err error) error { return &exitError{code: ExitConfigError, err: err} }
func setupFailure(err error) error  { return &exitError{code: ExitSetupError, err: err} }

// ExitCode maps a command error to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag parsing and usage errors
	return ExitConfigError
}

// AppContext holds what every command needs
type AppContext struct {
	Config  *config.Config
	Logger  *zap.Logger
	Out     io.Writer
	NoColor bool

	store  *sqlite.Store
	mirror *blobmirror.Mirror
}

// NewAppContext loads the env file and configuration and initialises logging
func NewAppContext(cmd *cli.Command) (*AppContext, error) {
	if err := config.LoadEnvFile(cmd.String("env-file")); err != nil {
		return nil, configFailure(err)
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, configFailure(err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, configFailure(domain.NewConfigError("logging.level", err))
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	return &AppContext{
		Config:  cfg,
		Logger:  logger.GetZapLogger(),
		Out:     out,
		NoColor: cmd.Bool("no-color"),
	}, nil
}

// OpenJournal opens the run journal. Returns nil when no journal is configured.
func (ac *AppContext) OpenJournal() (port.RunJournal, error) {
	if ac.Config.Journal.Path == "" {
		return nil, nil
	}
	store, err := sqlite.Open(ac.Config.Journal.Path)
	if err != nil {
		return nil, setupFailure(err)
	}
	ac.store = store
	return store, nil
}

// OpenMirror opens the blob mirror. Returns nil when no mirror is configured.
func (ac *AppContext) OpenMirror(ctx context.Context) (port.Mirror, error) {
	if ac.Config.Mirror.URL == "" {
		return nil, nil
	}
	m, err := blobmirror.Open(ctx, ac.Config.Mirror.URL, ac.Config.Mirror.Prefix)
	if err != nil {
		return nil, setupFailure(err)
	}
	ac.mirror = m
	return m, nil
}

// Close releases everything opened through the context
func (ac *AppContext) Close() {
	if ac.mirror != nil {
		if err := ac.mirror.Close(); err != nil {
			ac.Logger.Warn("failed to close mirror", zap.Error(err))
		}
	}
	if ac.store != nil {
		if err := ac.store.Close(); err != nil {
			ac.Logger.Warn("failed to close journal", zap.Error(err))
		}
	}
	_ = logger.Sync()
}
