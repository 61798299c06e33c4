package preview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/mdsite/internal/logfields"
)

// BuildFunc runs one site build.
type BuildFunc func(ctx context.Context) error

// buildStatus tracks the latest build result for health reporting.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuild    time.Time
	hasGoodBuild bool
}

func (bs *buildStatus) record(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastBuild = time.Now()
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) get() (lastErr error, lastBuild time.Time, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.lastBuild, bs.hasGoodBuild
}

// Rebuilder serializes builds: one runs at a time and requests arriving
// meanwhile collapse into a single follow-up build. The one-slot request
// channel holds that follow-up.
type Rebuilder struct {
	build  BuildFunc
	logger *slog.Logger
	status buildStatus
	reqs   chan struct{}

	buildMu sync.Mutex
}

// NewRebuilder wraps build.
func NewRebuilder(build BuildFunc, logger *slog.Logger) *Rebuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebuilder{build: build, logger: logger, reqs: make(chan struct{}, 1)}
}

// Request asks for a rebuild without blocking.
func (r *Rebuilder) Request() {
	select {
	case r.reqs <- struct{}{}:
	default:
	}
}

// BuildNow runs a build synchronously and records its result. It waits for
// any build already in progress.
func (r *Rebuilder) BuildNow(ctx context.Context) error {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	err := r.build(ctx)
	r.status.record(err)
	if err != nil {
		r.logger.Warn("Rebuild failed", logfields.Error(err))
	}
	return err
}

// Run processes rebuild requests until ctx is done.
func (r *Rebuilder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.reqs:
			r.logger.Info("Change detected; rebuilding site")
			_ = r.BuildNow(ctx)
		}
	}
}

// Healthy reports whether at least one build succeeded, with the latest error.
func (r *Rebuilder) Healthy() (bool, error) {
	lastErr, _, good := r.status.get()
	return good, lastErr
}
