// Package metrics defines the Prometheus metrics exported by the
// service: HTTP request metrics, pipeline job outcomes and durations,
// per-stage fetch/transcode timings and failures, and delivery results.
//
// All metrics are registered with the default registry using promauto.
// To expose them, mount promhttp.Handler() on the metrics listener:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
package metrics
