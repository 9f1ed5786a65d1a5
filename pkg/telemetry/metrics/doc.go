// Package metrics provides Prometheus metrics for the governance pipeline.
//
// The Collector registers counters and histograms for cycle outcomes and
// durations, unsafe prompt detections, policy verdicts, and audit event
// volume. All metrics live in an injected *prometheus.Registry so tests can
// use isolated registries, and are exposed over HTTP via Handler().
//
// Recording is a no-op when collection is disabled in config; metrics stay
// registered so scrape output does not change shape.
package metrics
