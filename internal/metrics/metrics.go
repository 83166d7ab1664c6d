package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_courier_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_courier_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_courier_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Job metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_courier_jobs_total",
			Help: "Total number of pipeline jobs by terminal outcome",
		},
		[]string{"outcome"},
	)

	JobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_courier_jobs_in_flight",
			Help: "Number of pipeline jobs currently running",
		},
	)

	JobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_courier_job_duration_seconds",
			Help:    "End-to-end pipeline job duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 900},
		},
	)
)

// Stage metrics
var (
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_courier_fetch_duration_seconds",
			Help:    "Downloader invocation duration in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)

	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_courier_fetch_errors_total",
			Help: "Total number of fetch failures by kind",
		},
		[]string{"kind"},
	)

	TranscodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_courier_transcode_duration_seconds",
			Help:    "Encoder invocation duration in seconds",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		},
	)

	TranscodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_courier_transcode_errors_total",
			Help: "Total number of transcode failures by kind",
		},
		[]string{"kind"},
	)

	TranscodeProbeFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_courier_transcode_probe_fallbacks_total",
			Help: "Times the duration probe failed and the default duration was substituted",
		},
	)

	ArtifactSizeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_courier_artifact_size_bytes",
			Help:    "Artifact sizes by pipeline stage",
			Buckets: prometheus.ExponentialBuckets(1<<20, 2, 10), // 1MB .. 512MB
		},
		[]string{"stage"},
	)
)

// Delivery metrics
var (
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_courier_deliveries_total",
			Help: "Total number of transport sends by payload type and status",
		},
		[]string{"type", "status"},
	)
)
