// Package metrics provides build and page metrics for mdsite.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics never need nil checks:
//
//	gen := site.NewGenerator(site.Options{Engine: engine, Template: tmpl, Recorder: metrics.NoopRecorder{}})
//
// PrometheusRecorder forwards to a Prometheus registry; HTTPHandler exposes
// that registry for scraping (used by `mdsite serve` when serve.metrics is on).
package metrics
