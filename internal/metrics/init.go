package metrics

// InitializeMetrics pre-populates all expected label combinations so
// that every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, outcome := range []string{
		"success", "fetch_error", "transcode_error", "size_rejected", "delivery_error",
	} {
		JobsTotal.WithLabelValues(outcome)
	}

	for _, kind := range []string{"timeout", "tool_failure", "empty_output"} {
		FetchErrors.WithLabelValues(kind)
	}

	for _, kind := range []string{"timeout", "encode_failure"} {
		TranscodeErrors.WithLabelValues(kind)
	}

	for _, stage := range []string{"fetched", "shrunk"} {
		ArtifactSizeBytes.WithLabelValues(stage)
	}

	for _, t := range []string{"artifact", "notice"} {
		DeliveriesTotal.WithLabelValues(t, "success")
		DeliveriesTotal.WithLabelValues(t, "error")
	}
}
