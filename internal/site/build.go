package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
	"git.home.luguber.info/inful/mdsite/internal/linkverify"
	"git.home.luguber.info/inful/mdsite/internal/logfields"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
	"git.home.luguber.info/inful/mdsite/internal/render"
	"git.home.luguber.info/inful/mdsite/internal/state"
)

// Build stage names used in logs and metrics.
const (
	StageReset    = "reset"
	StageTemplate = "template"
	StageStatic   = "static"
	StageGenerate = "generate"
	StageLinks    = "links"
)

// BuildConfig is everything a Builder needs. It mirrors the config file but
// keeps this package independent of config loading.
type BuildConfig struct {
	ContentDir string
	StaticDir  string
	PublicDir  string
	Template   string
	Engine     render.Engine
	Workers    int
	Clean      bool
	SkipDrafts bool
	CheckLinks bool
	// Store enables incremental builds when non-nil.
	Store state.Store
}

// Report summarizes one build.
type Report struct {
	BuildID     string
	Started     time.Time
	Duration    time.Duration
	Pages       PagesSummary
	StaticBytes int64
	BrokenLinks []linkverify.BrokenLink
	Stages      map[string]time.Duration
}

// Summary is a one-line human readable description of the report.
func (r Report) Summary() string {
	return fmt.Sprintf("%d written, %d unchanged, %d drafts, %d failed, %s pages, %s static in %s",
		r.Pages.Written, r.Pages.Skipped, r.Pages.Drafts, r.Pages.Failed,
		humanize.Bytes(uint64(max(r.Pages.Bytes, 0))), humanize.Bytes(uint64(max(r.StaticBytes, 0))),
		r.Duration.Round(time.Millisecond))
}

// Builder runs the reset, static, generate and link-check stages.
type Builder struct {
	cfg      BuildConfig
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewBuilder creates a builder. A nil recorder disables metrics.
func NewBuilder(cfg BuildConfig, recorder metrics.Recorder, logger *slog.Logger) *Builder {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{cfg: cfg, recorder: recorder, logger: logger}
}

// Build runs one full build. Page failures do not stop other pages; they are
// reported together as a build error after the remaining stages ran.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	report := Report{
		BuildID: uuid.NewString(),
		Started: time.Now(),
		Stages:  make(map[string]time.Duration),
	}
	logger := b.logger.With(logfields.BuildID(report.BuildID))
	logger.Info("Build started", logfields.Path(b.cfg.ContentDir))

	err := b.run(ctx, logger, &report)
	report.Duration = time.Since(report.Started)
	b.recorder.ObserveBuildDuration(report.Duration)

	outcome := metrics.OutcomeSuccess
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		outcome = metrics.OutcomeCanceled
	case err != nil:
		outcome = metrics.OutcomeFailed
	case len(report.BrokenLinks) > 0:
		outcome = metrics.OutcomeWarning
	}
	b.recorder.IncBuildOutcome(outcome)

	if b.cfg.Store != nil {
		rec := state.BuildRecord{
			ID:       report.BuildID,
			Started:  report.Started,
			Duration: report.Duration,
			Written:  report.Pages.Written,
			Skipped:  report.Pages.Skipped,
			Failed:   report.Pages.Failed,
		}
		if recErr := b.cfg.Store.RecordBuild(context.WithoutCancel(ctx), rec); recErr != nil {
			logger.Warn("Failed to record build", logfields.Error(recErr))
		}
	}

	if err != nil {
		logger.Error("Build failed", slog.String("outcome", string(outcome)), slog.String("summary", report.Summary()))
		return report, err
	}
	logger.Info("Build finished", slog.String("outcome", string(outcome)), slog.String("summary", report.Summary()))
	return report, nil
}

func (b *Builder) run(ctx context.Context, logger *slog.Logger, report *Report) error {
	if b.cfg.Clean {
		if err := b.stage(ctx, logger, report, StageReset, func(context.Context) error {
			return ResetPublic(b.cfg.PublicDir, b.cfg.ContentDir, b.cfg.StaticDir, templateDir(b.cfg.Template))
		}); err != nil {
			return err
		}
	}

	var tmpl *Template
	if err := b.stage(ctx, logger, report, StageTemplate, func(context.Context) error {
		var err error
		tmpl, err = LoadTemplate(b.cfg.Template, logger)
		return err
	}); err != nil {
		return err
	}

	if err := b.stage(ctx, logger, report, StageStatic, func(context.Context) error {
		if b.cfg.StaticDir == "" {
			return nil
		}
		n, err := CopyStatic(b.cfg.StaticDir, b.cfg.PublicDir)
		if errors.Is(err, ErrNoStaticDir) {
			logger.Info("No static directory, skipping copy", logfields.Path(b.cfg.StaticDir))
			return nil
		}
		report.StaticBytes = n
		return err
	}); err != nil {
		return err
	}

	gen := NewGenerator(Options{
		Engine:     b.cfg.Engine,
		Template:   tmpl,
		Store:      b.cfg.Store,
		Recorder:   b.recorder,
		Logger:     logger,
		Workers:    b.cfg.Workers,
		SkipDrafts: b.cfg.SkipDrafts,
	})
	var pageErr error
	if err := b.stage(ctx, logger, report, StageGenerate, func(ctx context.Context) error {
		var err error
		report.Pages, err = gen.GeneratePagesRecursive(ctx, b.cfg.ContentDir, b.cfg.PublicDir)
		if err != nil && report.Pages.Failed == 0 {
			return err
		}
		pageErr = err
		return nil
	}); err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if b.cfg.CheckLinks {
		if err := b.stage(ctx, logger, report, StageLinks, func(ctx context.Context) error {
			broken, err := linkverify.VerifyDir(ctx, b.cfg.PublicDir)
			if err != nil {
				return err
			}
			report.BrokenLinks = broken
			b.recorder.SetBrokenLinks(len(broken))
			for _, bl := range broken {
				logger.Warn("Broken link", logfields.Page(bl.Page), logfields.URL(bl.URL), logfields.Dest(bl.Target))
			}
			return nil
		}); err != nil {
			return err
		}
	}

	if pageErr != nil {
		return serrors.BuildFailed(StageGenerate, pageErr).
			WithContext("failed_pages", report.Pages.Failed)
	}
	return nil
}

// stage times fn and records the outcome. Errors that are not already a
// SiteError or a context error are wrapped as build failures for the stage.
func templateDir(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

func (b *Builder) stage(ctx context.Context, logger *slog.Logger, report *Report, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		b.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}

	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)
	report.Stages[name] = d
	b.recorder.ObserveStageDuration(name, d)

	switch {
	case err == nil:
		b.recorder.IncStageResult(name, metrics.ResultSuccess)
		logger.Debug("Stage complete", logfields.Stage(name), logfields.DurationMS(float64(d.Microseconds())/1000))
		return nil
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		b.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	default:
		b.recorder.IncStageResult(name, metrics.ResultFatal)
		if _, ok := serrors.As(err); ok {
			return err
		}
		return serrors.BuildFailed(name, err)
	}
}
