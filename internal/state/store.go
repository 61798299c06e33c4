package state

import (
	"context"
	"time"
)

// Store records the fingerprint a page had when it was last written.
type Store interface {
	// Fingerprint returns the stored fingerprint for path. ok is false when
	// the page has never been recorded.
	Fingerprint(ctx context.Context, path string) (fp string, ok bool, err error)
	Put(ctx context.Context, path, fp string) error
	// Prune removes every page not listed in keep and returns the removed paths in order.
	Prune(ctx context.Context, keep []string) ([]string, error)
	RecordBuild(ctx context.Context, rec BuildRecord) error
	LastBuild(ctx context.Context) (BuildRecord, bool, error)
	Close() error
}

// BuildRecord summarizes one completed build.
type BuildRecord struct {
	ID       string
	Started  time.Time
	Duration time.Duration
	Written  int
	Skipped  int
	Failed   int
}
