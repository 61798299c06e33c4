package preview

import (
	"context"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdsite/internal/logfields"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

// Options configures a preview session.
type Options struct {
	PublicDir       string
	WatchDirs       []string
	WatchFiles      []string
	Port            int
	RebuildInterval time.Duration
	// Registry exposes /metrics when non-nil.
	Registry *prom.Registry
	Build    BuildFunc
	Logger   *slog.Logger
}

// Run builds once, then serves and rebuilds on change until ctx is cancelled.
// A failing initial build is logged; the server still starts so fixes are
// picked up by the watcher.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rebuilder := NewRebuilder(opts.Build, logger)
	if err := rebuilder.BuildNow(ctx); err != nil {
		logger.Error("initial build failed", logfields.Error(err))
	}

	server := NewServer(opts.Port, NewHandler(opts.PublicDir, rebuilder.Healthy, opts.Registry), logger)
	if err := server.Start(); err != nil {
		return err
	}

	watcher, err := NewWatcher(opts.WatchDirs, opts.WatchFiles, []string{opts.PublicDir}, logger)
	if err != nil {
		_ = server.Stop(context.Background())
		return err
	}
	defer func() { _ = watcher.Close() }()

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go rebuilder.Run(workerCtx)

	debounce := newDebouncer(DebounceDelay, rebuilder.Request)
	defer debounce.Stop()

	if opts.RebuildInterval > 0 {
		sched, err := NewScheduler(logger)
		if err != nil {
			_ = server.Stop(context.Background())
			return err
		}
		if _, err := sched.SchedulePeriodicRebuild(opts.RebuildInterval, rebuilder.Request); err != nil {
			_ = server.Stop(context.Background())
			return err
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				logger.Warn("Scheduler shutdown error", logfields.Error(err))
			}
		}()
		logger.Info("Periodic rebuild enabled", slog.Duration("interval", opts.RebuildInterval))
	}

	_ = watcher.Run(ctx, debounce.Trigger)
	return handleShutdown(server, logger)
}

func handleShutdown(server *Server, logger *slog.Logger) error {
	logger.Info("Shutting down preview server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}
