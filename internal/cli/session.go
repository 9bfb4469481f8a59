package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/roach88/aisync/internal/config"
	"github.com/roach88/aisync/internal/engine"
	"github.com/roach88/aisync/internal/store"
)

// session is one opened project: resolved config, logger and engine.
type session struct {
	cfg    *config.Config
	engine *engine.Engine
	logger *slog.Logger
	out    *OutputFormatter
}

func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(opts.Root, opts.ConfigFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return newSession(opts, cmd, cfg)
}

// newSession opens the database named by an already resolved config.
func newSession(opts *RootOptions, cmd *cobra.Command, cfg *config.Config) (*session, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), cfg, opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid log settings", err)
	}
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create state directory", err)
	}
	logger.Debug("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	engineOpts := append([]engine.Option{engine.WithLogger(logger)}, opts.EngineOptions...)
	return &session{
		cfg:    cfg,
		engine: engine.New(st, cfg.Root, engineOpts...),
		logger: logger,
		out:    newFormatter(opts, cmd),
	}, nil
}

func (s *session) Close() {
	if err := s.engine.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// lock takes the single-writer lock next to the database. The returned
// function releases it.
func (s *session) lock() (func(), error) {
	fl := flock.New(s.cfg.Database + ".lock")
	locked, err := fl.TryLock()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to acquire lock", err)
	}
	if !locked {
		return nil, NewExitError(ExitCommandError,
			"another aisync sync is running against "+s.cfg.Root)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn("failed to release lock", "path", fl.Path(), "error", err)
		}
	}, nil
}

func newLogger(w io.Writer, cfg *config.Config, opts *RootOptions) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	format := cfg.Log.Format
	if opts.LogFormat != "" {
		format = opts.LogFormat
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// commandContext returns the command's context, or Background when run
// outside Execute (as some tests do).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
