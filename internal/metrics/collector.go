package metrics

import (
	"time"

	"image-viewer/internal/logging"
)

// StatsProvider reports the session's current counts for gauge export.
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current statistics
type Stats struct {
	CatalogFiles     int
	ThumbnailsLoaded int
	MetaCacheEntries int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	CatalogFilesTotal.Set(float64(stats.CatalogFiles))
	ThumbnailsLoaded.Set(float64(stats.ThumbnailsLoaded))
	MetaCacheEntries.Set(float64(stats.MetaCacheEntries))

	logging.Debug("Metrics collected: files=%d, thumbnails=%d, meta=%d",
		stats.CatalogFiles, stats.ThumbnailsLoaded, stats.MetaCacheEntries)
}
