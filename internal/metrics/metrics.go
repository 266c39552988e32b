package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session metrics
var (
	SessionLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_viewer_session_loads_total",
			Help: "Total number of image load requests",
		},
		[]string{"status"}, // "success", "error", "superseded"
	)

	SessionLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_viewer_session_load_duration_seconds",
			Help:    "Image load duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	SessionSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_viewer_session_saves_total",
			Help: "Total number of image save requests",
		},
		[]string{"status"}, // "success", "error"
	)

	SessionDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_viewer_session_deletes_total",
			Help: "Total number of file delete requests",
		},
		[]string{"status"},
	)

	SessionNavigationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_viewer_session_navigations_total",
			Help: "Total number of navigation requests",
		},
		[]string{"direction"}, // "forward", "backward", "first", "last", "jump"
	)
)

// Thumbnail metrics
var (
	ThumbnailLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_viewer_thumbnail_loads_total",
			Help: "Total number of thumbnails decoded",
		},
		[]string{"source"}, // "embedded", "vips", "full"
	)

	ThumbnailFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_viewer_thumbnail_failures_total",
			Help: "Total number of files whose thumbnail could not be decoded",
		},
	)

	ThumbnailsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_viewer_thumbnails_loaded",
			Help: "Number of thumbnails currently held in memory",
		},
	)
)

// Catalog metrics
var (
	CatalogRebuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_viewer_catalog_rebuilds_total",
			Help: "Total number of directory index rebuilds",
		},
	)

	CatalogFilesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_viewer_catalog_files",
			Help: "Number of displayable files in the current directory",
		},
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_viewer_watcher_events_total",
			Help: "Total number of filesystem watcher events after debouncing",
		},
		[]string{"event_type"}, // "file", "directory"
	)

	WatcherEventsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_viewer_watcher_events_suppressed_total",
			Help: "Total number of watcher events suppressed as self-inflicted writes",
		},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_viewer_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)
)

// Metadata cache metrics
var (
	MetaCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "image_viewer_meta_cache_entries",
			Help: "Number of files with cached EXIF data",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_viewer_fs_retry_attempts_total",
			Help: "Total number of filesystem operation retry attempts",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_viewer_fs_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retry",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_viewer_fs_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_viewer_fs_stale_errors_total",
			Help: "Total number of NFS stale file handle errors",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_viewer_fs_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds, retries included",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation", "volume"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "image_viewer_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
