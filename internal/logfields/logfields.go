package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPage       = "page"
	KeySource     = "source"
	KeyDest       = "dest"
	KeyPath       = "path"
	KeyTitle      = "title"
	KeyEngine     = "engine"
	KeyWorker     = "worker"
	KeyBytes      = "bytes"
	KeyCount      = "count"
	KeyStatus     = "status"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Dest(p string) slog.Attr         { return slog.String(KeyDest, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Engine(name string) slog.Attr    { return slog.String(KeyEngine, name) }
func Worker(id int) slog.Attr         { return slog.Int(KeyWorker, id) }
func Bytes(n int64) slog.Attr         { return slog.Int64(KeyBytes, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
