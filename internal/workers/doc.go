/*
Package workers provides utilities for determining optimal worker pool sizes
in containerized environments.

# Overview

When running Go applications in containers, the number of available CPUs may
be limited by cgroup constraints. While Go 1.19+ automatically sets GOMAXPROCS
based on container CPU limits, the commonly used runtime.NumCPU() function
still returns the host machine's CPU count.

This package provides helper functions that use GOMAXPROCS to determine
appropriate worker counts for different types of workloads.

# Basic Usage

	import "image-viewer/internal/workers"

	// For I/O-bound tasks (background loads and saves)
	numWorkers := workers.ForIO(16) // max 16 workers

For fine-grained control, use the Count function directly:

	// 3 workers per CPU, maximum of 24
	numWorkers := workers.Count(3.0, 24)

# Environment Variable Override

All functions respect the IO_WORKERS environment variable, allowing operators
to override the automatic calculation:

	IO_WORKERS=4 image-viewer

# Thread Safety

All functions in this package are safe for concurrent use. They read from
runtime.GOMAXPROCS and environment variables, which are themselves thread-safe.
*/
package workers
