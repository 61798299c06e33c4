package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdsite/internal/config"
	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"mdsite.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Generate the site into the public directory"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
	Render RenderCmd `cmd:"" help:"Print the HTML fragment of one Markdown document"`
	Title  TitleCmd  `cmd:"" help:"Print the title of one Markdown document"`
	Serve  ServeCmd  `cmd:"" help:"Build, serve and rebuild the site on change"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, resolveLogLevel(c.Verbose, ""), config.LogFormatText))
	return nil
}

// resolveLogLevel picks the level: -v wins, then MDSITE_LOG_LEVEL, then config.
func resolveLogLevel(verbose bool, configured string) config.LogLevel {
	if verbose {
		return config.LogLevelDebug
	}
	if env := os.Getenv("MDSITE_LOG_LEVEL"); env != "" {
		return config.NormalizeLogLevel(env)
	}
	return config.NormalizeLogLevel(configured)
}

func newLogger(w io.Writer, level config.LogLevel, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadConfig reads the configuration file. Without a file the defaults are
// used, so a conventional project layout needs no configuration. The default
// logger is reconfigured from the log section.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		se, ok := serrors.As(err)
		if !ok || se.Category != serrors.CategoryConfig || !isNotExist(root.Config) {
			return nil, err
		}
		slog.Debug("No configuration file, using defaults", slog.String("path", root.Config))
		cfg = config.Default()
	}

	logger := newLogger(os.Stderr, resolveLogLevel(root.Verbose, cfg.Log.Level), config.NormalizeLogFormat(cfg.Log.Format))
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return cfg, nil
}

func isNotExist(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}
