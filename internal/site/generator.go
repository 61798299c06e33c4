package site

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	serrors "git.home.luguber.info/inful/mdsite/internal/errors"
	"git.home.luguber.info/inful/mdsite/internal/logfields"
	"git.home.luguber.info/inful/mdsite/internal/metrics"
)

// PagesSummary aggregates per-page reports of one generation pass.
type PagesSummary struct {
	Pages   []PageReport
	Written int
	Skipped int
	Drafts  int
	Failed  int
	Bytes   int64
}

type pageJob struct {
	key  string
	src  string
	dest string
}

// GeneratePagesRecursive converts every .md file under contentDir into the
// mirrored .html path under publicDir. Other files are ignored. Pages are
// independent: a failure is collected and the remaining pages still run.
// The returned error joins every page error.
func (g *Generator) GeneratePagesRecursive(ctx context.Context, contentDir, publicDir string) (PagesSummary, error) {
	jobs, err := discoverPages(contentDir, publicDir)
	if err != nil {
		return PagesSummary{}, err
	}

	results := runOrdered(ctx, jobs, g.workers, func(ctx context.Context, worker int, job pageJob) (PageReport, error) {
		rep, err := g.GeneratePage(ctx, job.key, job.src, job.dest)
		if err != nil {
			g.logger.Error("Page failed", logfields.Page(job.key), logfields.Worker(worker), logfields.Error(err))
			return rep, err
		}
		g.logger.Debug("Page done",
			logfields.Page(job.key),
			logfields.Status(string(rep.Result)),
			logfields.Worker(worker),
			logfields.DurationMS(float64(rep.Duration.Microseconds())/1000))
		return rep, nil
	})

	var (
		summary PagesSummary
		errs    []error
	)
	for i, r := range results {
		rep := r.Value
		if rep.Source == "" {
			rep = PageReport{Source: jobs[i].src, Dest: jobs[i].dest, Result: metrics.PageFailed}
		}
		summary.Pages = append(summary.Pages, rep)
		if r.Err != nil {
			summary.Failed++
			errs = append(errs, r.Err)
			continue
		}
		switch rep.Result {
		case metrics.PageWritten:
			summary.Written++
			summary.Bytes += int64(rep.Bytes)
		case metrics.PageSkipped:
			summary.Skipped++
		case metrics.PageDraft:
			summary.Drafts++
		}
	}

	if g.store != nil && ctx.Err() == nil {
		keep := make([]string, 0, len(jobs))
		for _, job := range jobs {
			keep = append(keep, job.key)
		}
		removed, err := g.store.Prune(ctx, keep)
		if err != nil {
			g.logger.Warn("Failed to prune page state", logfields.Error(err))
		}
		for _, key := range removed {
			dest := outputPath(publicDir, key)
			if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
				g.logger.Warn("Failed to remove stale page", logfields.Page(key), logfields.Error(err))
				continue
			}
			g.logger.Debug("Removed stale page", logfields.Page(key), logfields.Dest(dest))
		}
	}

	return summary, errors.Join(errs...)
}

// outputPath maps a slash-separated page key to its .html file under publicDir.
func outputPath(publicDir, key string) string {
	rel := filepath.FromSlash(key)
	return filepath.Join(publicDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".html")
}

// discoverPages walks contentDir in lexical order.
func discoverPages(contentDir, publicDir string) ([]pageJob, error) {
	var jobs []pageJob
	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		rel, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		jobs = append(jobs, pageJob{key: key, src: path, dest: outputPath(publicDir, key)})
		return nil
	})
	if err != nil {
		return nil, serrors.FileSystemError("walk", contentDir, err)
	}
	return jobs, nil
}
