// Package metrics declares the Prometheus instrumentation for the
// viewer: session load/save/navigation counters, thumbnail decode
// counters, watcher and catalog activity, and filesystem retry
// behavior. It also hosts the scrape endpoint and a small collector
// that periodically exports session gauges.
package metrics
