package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/mdsite/internal/config"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
	"git.home.luguber.info/inful/mdsite/internal/render"
	"git.home.luguber.info/inful/mdsite/internal/site"
	"git.home.luguber.info/inful/mdsite/internal/state"
)

// BuildCmd implements the 'build' command. Flags override the config file.
type BuildCmd struct {
	Content     string `help:"Content directory" type:"path"`
	Static      string `help:"Static files directory" type:"path"`
	Public      string `help:"Output directory" type:"path"`
	Template    string `help:"Page template file" type:"path"`
	Engine      string `help:"Markdown engine (builtin|goldmark)"`
	Workers     int    `help:"Number of page workers (0 = number of CPUs)" default:"-1"`
	Incremental bool   `short:"i" help:"Skip pages that did not change since the last build"`
	CheckLinks  bool   `name:"check-links" help:"Report broken relative links after the build"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	b.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := RunBuild(ctx, cfg, nil, slog.Default())
	if report.BuildID != "" {
		fmt.Fprintln(g.stdout(), report.Summary())
		printBrokenLinks(g.stdout(), report)
	}
	return err
}

// apply copies explicitly set flags onto cfg.
func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Content != "" {
		cfg.ContentDir = b.Content
	}
	if b.Static != "" {
		cfg.StaticDir = b.Static
	}
	if b.Public != "" {
		cfg.PublicDir = b.Public
	}
	if b.Template != "" {
		cfg.Template = b.Template
	}
	if b.Engine != "" {
		cfg.Build.Engine = b.Engine
	}
	if b.Workers >= 0 {
		cfg.Build.Workers = b.Workers
	}
	if b.Incremental {
		cfg.Build.Incremental = true
	}
	if b.CheckLinks {
		cfg.Build.CheckLinks = true
	}
}

// RunBuild performs one build from cfg. A nil recorder disables metrics.
func RunBuild(ctx context.Context, cfg *config.Config, recorder metrics.Recorder, logger *slog.Logger) (site.Report, error) {
	engine, err := render.New(cfg.Build.Engine)
	if err != nil {
		return site.Report{}, err
	}

	bc := site.BuildConfig{
		ContentDir: cfg.ContentDir,
		StaticDir:  cfg.StaticDir,
		PublicDir:  cfg.PublicDir,
		Template:   cfg.Template,
		Engine:     engine,
		Workers:    cfg.Build.WorkerCount(),
		Clean:      cfg.Build.CleanOutput(),
		SkipDrafts: cfg.Build.ShouldSkipDrafts(),
		CheckLinks: cfg.Build.CheckLinks,
	}
	if cfg.Build.Incremental {
		store, err := state.NewSQLiteStore(cfg.Build.StatePath)
		if err != nil {
			return site.Report{}, fmt.Errorf("open state store: %w", err)
		}
		defer func() { _ = store.Close() }()
		bc.Store = store
	}

	return site.NewBuilder(bc, recorder, logger).Build(ctx)
}

func printBrokenLinks(w io.Writer, report site.Report) {
	for _, bl := range report.BrokenLinks {
		fmt.Fprintf(w, "broken link: %s -> %s\n", bl.Page, bl.URL)
	}
}
