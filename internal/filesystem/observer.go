package filesystem

// Observer records filesystem operation metrics. Implementations are provided
// by the metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	// ObserveRetryAttempt records one retry of a filesystem operation.
	// op is the operation type: "stat", "open", "readdir". volume is the
	// resolved mount label (e.g., "images", "database").
	ObserveRetryAttempt(op, volume string)
	ObserveRetrySuccess(op, volume string)
	ObserveRetryFailure(op, volume string)
	ObserveStaleError(op, volume string)
	ObserveDuration(op, volume string, durationSeconds float64)
}

// defaultObserver is the package-level observer set at startup.
// If nil, metric recording is silently skipped (safe for tests).
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver = o
}

// nopObserver swallows every observation.
type nopObserver struct{}

func (nopObserver) ObserveRetryAttempt(op, volume string)                      {}
func (nopObserver) ObserveRetrySuccess(op, volume string)                      {}
func (nopObserver) ObserveRetryFailure(op, volume string)                      {}
func (nopObserver) ObserveStaleError(op, volume string)                        {}
func (nopObserver) ObserveDuration(op, volume string, durationSeconds float64) {}

func observe() Observer {
	if defaultObserver == nil {
		return nopObserver{}
	}
	return defaultObserver
}
