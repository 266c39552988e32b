package metrics

import "image-viewer/internal/filesystem"

// filesystemObserver implements filesystem.Observer using the Prometheus
// metrics declared in this package.
type filesystemObserver struct{}

// NewFilesystemObserver creates an observer that records filesystem retry
// behavior into the Prometheus counters and histograms declared in metrics.go.
func NewFilesystemObserver() filesystem.Observer {
	return &filesystemObserver{}
}

func (o *filesystemObserver) ObserveRetryAttempt(op, volume string) {
	FilesystemRetryAttempts.WithLabelValues(op, volume).Inc()
}

func (o *filesystemObserver) ObserveRetrySuccess(op, volume string) {
	FilesystemRetrySuccess.WithLabelValues(op, volume).Inc()
}

func (o *filesystemObserver) ObserveRetryFailure(op, volume string) {
	FilesystemRetryFailures.WithLabelValues(op, volume).Inc()
}

func (o *filesystemObserver) ObserveStaleError(op, volume string) {
	FilesystemStaleErrors.WithLabelValues(op, volume).Inc()
}

func (o *filesystemObserver) ObserveDuration(op, volume string, durationSeconds float64) {
	FilesystemRetryDuration.WithLabelValues(op, volume).Observe(durationSeconds)
}
