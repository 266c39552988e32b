package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"image-viewer/internal/database"
	"image-viewer/internal/filesystem"
	"image-viewer/internal/logging"
	"image-viewer/internal/media"
	"image-viewer/internal/metrics"
	"image-viewer/internal/session"
	"image-viewer/internal/startup"
	"image-viewer/internal/watch"
)

func main() {
	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"images":   config.ImageDir,
		"database": config.DatabaseDir,
	}))
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	// libvips is optional; without it thumbnails fall back to pure Go
	if err := media.InitVips(); err != nil {
		logging.Warn("libvips unavailable, using fallback decoding: %v", err)
	}
	defer media.ShutdownVips()

	// Initialize database
	dbStart := time.Now()
	store, err := database.Open(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer store.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	// Filesystem watcher
	watcher, err := watch.New(config.WatchDebounce)
	if err != nil {
		startup.LogFatal("Failed to create filesystem watcher: %v", err)
	}
	defer watcher.Close()

	// Session
	sess := session.New(session.Options{
		Store:           store,
		Watcher:         watcher,
		ThumbMaxSide:    config.ThumbMaxSide,
		IgnoreKeywords:  config.IgnoreKeywords,
		IncludeKeywords: config.IncludeKeywords,
	})
	defer sess.Close()

	if err := sess.SetDirectory(config.ImageDir); err != nil {
		startup.LogFatal("Failed to open image directory: %v", err)
	}
	startup.LogSessionStarted(sess.Directory(), len(sess.Files()))

	// Metrics
	var metricsSrv *http.Server
	var collector *metrics.Collector
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		info := startup.GetBuildInfo()
		metrics.SetAppInfo(info.Version, info.Commit, info.GoVersion)

		collector = metrics.NewCollector(sess, 15*time.Second)
		collector.Start()

		metricsSrv = metrics.NewServer(config.MetricsPort)
		go func() {
			logging.Info("Metrics server listening on :%d", config.MetricsPort)
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Watcher drain loop; all index rebuilds happen here
	go sess.Run(ctx)

	// Load the first image so an attaching display has something to show
	sess.FirstFile(session.Silent)

	// Start graceful shutdown handler
	go handleShutdown(cancel, sess, collector, metricsSrv)

	drainEvents(ctx, sess)
}

// drainEvents consumes session events until shutdown. It stands where
// a display frontend would attach, logging what the display would
// render.
func drainEvents(ctx context.Context, sess *session.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-sess.Events():
			switch ev.Kind {
			case session.ImageUpdated:
				if ev.File.IsZero() {
					logging.Info("View cleared")
				} else {
					logging.Info("Showing %s", ev.File.Name())
				}
			case session.ErrorDialog:
				logging.Error("%s: %s", ev.Title, ev.Message)
			case session.InfoMessage:
				if ev.Message != "" {
					logging.Info("%s", ev.Message)
				}
			case session.FileNotLoaded:
				logging.Warn("Could not show %s", ev.File.Name())
			case session.DirectoryUpdated:
				logging.Debug("Directory index refreshed: %s", ev.File.Path())
			default:
				logging.Debug("Display event: %s", ev.Kind)
			}
		}
	}
}

func handleShutdown(cancel context.CancelFunc, sess *session.Session, collector *metrics.Collector, metricsSrv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelTimeout()

	startup.LogShutdownStep("Stopping thumbnail loader")
	sess.Close()
	startup.LogShutdownStepComplete("Thumbnail loader stopped")

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownComplete()
	cancel()
}
