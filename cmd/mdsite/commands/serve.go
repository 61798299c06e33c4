package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdsite/internal/config"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
	"git.home.luguber.info/inful/mdsite/internal/preview"
)

// ServeCmd builds the site, serves it and rebuilds on change.
type ServeCmd struct {
	Port            int           `short:"p" help:"HTTP port (default from config, 8080)"`
	Metrics         bool          `help:"Expose Prometheus metrics on /metrics"`
	RebuildInterval time.Duration `name:"rebuild-interval" help:"Also rebuild periodically (0 disables)"`
	Engine          string        `help:"Markdown engine (builtin|goldmark)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	s.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return preview.Run(ctx, serveOptions(cfg, slog.Default()))
}

func (s *ServeCmd) apply(cfg *config.Config) {
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}
	if s.Metrics {
		cfg.Serve.Metrics = true
	}
	if s.RebuildInterval > 0 {
		cfg.Serve.RebuildInterval = s.RebuildInterval
	}
	if s.Engine != "" {
		cfg.Build.Engine = s.Engine
	}
}

func serveOptions(cfg *config.Config, logger *slog.Logger) preview.Options {
	var (
		reg      *prom.Registry
		recorder metrics.Recorder = metrics.NoopRecorder{}
	)
	if cfg.Serve.Metrics {
		reg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	return preview.Options{
		PublicDir:       cfg.PublicDir,
		WatchDirs:       []string{cfg.ContentDir, cfg.StaticDir},
		WatchFiles:      []string{cfg.Template},
		Port:            cfg.Serve.Port,
		RebuildInterval: cfg.Serve.RebuildInterval,
		Registry:        reg,
		Logger:          logger,
		Build: func(ctx context.Context) error {
			_, err := RunBuild(ctx, cfg, recorder, logger)
			return err
		},
	}
}
