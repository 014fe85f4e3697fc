package cmdutil

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/lifedraft/sitehook/internal/config"
	"github.com/lifedraft/sitehook/internal/pyenv"
	"github.com/lifedraft/sitehook/internal/sitecustom"
)

// Factory provides shared dependencies to all commands.
type Factory struct {
	ConfigPath string
	Debug      bool
	Python     string

	// Out and ErrOut default to os.Stdout and os.Stderr.
	Out    io.Writer
	ErrOut io.Writer
	// Fs defaults to the OS filesystem.
	Fs afero.Fs

	cfg    *config.Config
	logger *slog.Logger
	dirs   *pyenv.SiteDirs
}

// Config returns the loaded configuration with defaults applied, caching after first load.
func (f *Factory) Config() (*config.Config, error) {
	if f.cfg != nil {
		return f.cfg, nil
	}
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()
	if f.Python != "" {
		cfg.Python = f.Python
	}
	f.cfg = cfg
	return cfg, nil
}

// Logger returns the stderr logger. Before the config is readable it logs at info level.
func (f *Factory) Logger() *slog.Logger {
	if f.logger != nil {
		return f.logger
	}
	level := slog.LevelInfo
	if cfg, err := f.Config(); err == nil {
		level = ParseLogLevel(cfg.LogLevel)
	}
	if f.Debug {
		level = slog.LevelDebug
	}
	f.logger = slog.New(slog.NewTextHandler(f.Stderr(), &slog.HandlerOptions{
		Level: level,
	}))
	return f.logger
}

// Interpreter returns the configured Python interpreter.
func (f *Factory) Interpreter() (*pyenv.Interpreter, error) {
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	return pyenv.New(cfg.Python, f.Logger()), nil
}

// SiteDirs queries the interpreter once and caches its answer.
func (f *Factory) SiteDirs(ctx context.Context) (*pyenv.SiteDirs, error) {
	if f.dirs != nil {
		return f.dirs, nil
	}
	py, err := f.Interpreter()
	if err != nil {
		return nil, err
	}
	dirs, err := py.Query(ctx)
	if err != nil {
		return nil, err
	}
	f.dirs = dirs
	return dirs, nil
}

// Editor returns a block editor logging to the factory's logger.
func (f *Factory) Editor() *sitecustom.Editor {
	return sitecustom.NewEditor(f.Fs, f.Logger())
}

// Stdout returns the writer for command output.
func (f *Factory) Stdout() io.Writer {
	if f.Out != nil {
		return f.Out
	}
	return os.Stdout
}

// Stderr returns the writer for logs and status messages.
func (f *Factory) Stderr() io.Writer {
	if f.ErrOut != nil {
		return f.ErrOut
	}
	return os.Stderr
}

// OutputFlag returns the standard --output flag for use in commands.
func OutputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   "text",
		Usage:   "Output format: text, json",
	}
}

// IsJSON returns true if the output format is JSON.
func IsJSON(cmd *cli.Command) bool {
	return cmd.String("output") == "json"
}
