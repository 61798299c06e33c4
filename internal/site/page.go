package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/inful/mdfp"

	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
	"git.home.luguber.info/inful/mdsite/internal/logfields"
	"git.home.luguber.info/inful/mdsite/internal/markdown"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
	"git.home.luguber.info/inful/mdsite/internal/render"
	"git.home.luguber.info/inful/mdsite/internal/state"
)

// Options configures a Generator.
type Options struct {
	Engine   render.Engine
	Template *Template
	// Store enables incremental generation when non-nil.
	Store      state.Store
	Recorder   metrics.Recorder
	Logger     *slog.Logger
	Workers    int
	SkipDrafts bool
}

// Generator turns content pages into HTML files.
type Generator struct {
	engine     render.Engine
	tmpl       *Template
	store      state.Store
	recorder   metrics.Recorder
	logger     *slog.Logger
	workers    int
	skipDrafts bool
}

// NewGenerator builds a generator. Engine defaults to the builtin dialect and
// Recorder to a no-op.
func NewGenerator(opts Options) *Generator {
	g := &Generator{
		engine:     opts.Engine,
		tmpl:       opts.Template,
		store:      opts.Store,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
		workers:    opts.Workers,
		skipDrafts: opts.SkipDrafts,
	}
	if g.engine == nil {
		g.engine = render.Builtin{}
	}
	if g.tmpl == nil {
		g.tmpl = NewTemplate(TitlePlaceholder + "\n" + ContentPlaceholder)
	}
	if g.recorder == nil {
		g.recorder = metrics.NoopRecorder{}
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// PageReport describes what happened to one page.
type PageReport struct {
	Source   string
	Dest     string
	Title    string
	Result   metrics.PageResult
	Bytes    int
	Duration time.Duration
}

// GeneratePage renders src through the template into dest. key identifies the
// page in the state store (usually the content-relative path). A failing page
// leaves dest untouched.
func (g *Generator) GeneratePage(ctx context.Context, key, src, dest string) (PageReport, error) {
	start := time.Now()

	rep, err := g.generate(ctx, key, src, dest)
	rep.Duration = time.Since(start)
	if err != nil {
		rep.Result = metrics.PageFailed
	}
	g.recorder.ObservePageDuration(rep.Duration)
	g.recorder.IncPageResult(rep.Result)
	if rep.Result == metrics.PageWritten {
		g.recorder.AddBytesWritten(rep.Bytes)
	}
	return rep, err
}

func (g *Generator) generate(ctx context.Context, key, src, dest string) (PageReport, error) {
	report := PageReport{Source: src, Dest: dest}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	source, err := os.ReadFile(src)
	if err != nil {
		return report, serrors.FileSystemError("read", src, err)
	}

	meta, body, err := parseFrontMatter(source)
	if err != nil {
		return report, serrors.MarkdownError(src, err)
	}
	if meta.Draft && g.skipDrafts {
		report.Result = metrics.PageDraft
		g.logger.Debug("Skipping draft page", logfields.Source(src))
		if err := removeStale(dest); err != nil {
			return report, err
		}
		return report, nil
	}

	fp := g.fingerprint(source)
	if g.unchanged(ctx, key, fp, dest) {
		report.Result = metrics.PageSkipped
		return report, nil
	}

	res, err := g.engine.Convert(body)
	switch {
	case errors.Is(err, markdown.ErrNoTitleFound) && meta.Title != "":
	case err != nil:
		return report, serrors.MarkdownError(src, err)
	}
	if meta.Title != "" {
		res.Title = meta.Title
	}

	page := g.tmpl.Execute(res.Title, res.HTML)
	if err := writeAtomic(dest, []byte(page)); err != nil {
		return report, err
	}

	if g.store != nil {
		if err := g.store.Put(ctx, key, fp); err != nil {
			g.logger.Warn("Failed to record page fingerprint", logfields.Page(key), logfields.Error(err))
		}
	}

	report.Title = res.Title
	report.Bytes = len(page)
	report.Result = metrics.PageWritten
	return report, nil
}

// fingerprint covers the engine, the template and the page source so a
// change to any of them regenerates the page.
func (g *Generator) fingerprint(source []byte) string {
	return mdfp.CalculateFingerprintFromParts(g.engine.Name()+"\n"+g.tmpl.Raw(), string(source))
}

func (g *Generator) unchanged(ctx context.Context, key, fp, dest string) bool {
	if g.store == nil {
		return false
	}
	stored, ok, err := g.store.Fingerprint(ctx, key)
	if err != nil {
		g.logger.Warn("Failed to read page fingerprint", logfields.Page(key), logfields.Error(err))
		return false
	}
	if !ok || stored != fp {
		return false
	}
	_, err = os.Stat(dest)
	return err == nil
}

// writeAtomic writes data to a temp file beside path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return serrors.FileSystemError("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return serrors.FileSystemError("create", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return serrors.FileSystemError("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return serrors.FileSystemError("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return serrors.FileSystemError("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return serrors.FileSystemError("rename", path, fmt.Errorf("replace output: %w", err))
	}
	return nil
}

func removeStale(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return serrors.FileSystemError("remove", path, err)
	}
	return nil
}
