package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "error", "superseded"} {
		SessionLoadsTotal.WithLabelValues(status)
	}
	for _, status := range []string{"success", "error"} {
		SessionSavesTotal.WithLabelValues(status)
		SessionDeletesTotal.WithLabelValues(status)
	}
	for _, dir := range []string{"forward", "backward", "first", "last", "jump"} {
		SessionNavigationsTotal.WithLabelValues(dir)
	}

	for _, source := range []string{"embedded", "vips", "full"} {
		ThumbnailLoadsTotal.WithLabelValues(source)
	}

	for _, t := range []string{"file", "directory"} {
		WatcherEventsTotal.WithLabelValues(t)
	}

	// --- Filesystem retry metrics (per retry-operation × volume) ---
	volumes := []string{"images", "database", "unknown"}
	retryOps := []string{"stat", "open", "readdir", "write"}

	for _, op := range retryOps {
		for _, vol := range volumes {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
