package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns the optimal number of concurrent jobs for a given task
// profile. It respects container CPU limits via GOMAXPROCS (Go 1.19+).
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks
//   - 2.0 for I/O-bound tasks
//   - 1.5 for mixed tasks
//
// The limit parameter caps the count to prevent resource exhaustion.
// Use 0 for no limit.
//
// Can be overridden with the JOB_WORKERS environment variable.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("JOB_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns the count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns the count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}

// ForMixed returns the count for mixed tasks (1.5 per CPU). Pipeline
// jobs are mixed: downloads are network-bound, encodes are CPU-bound.
func ForMixed(limit int) int {
	return Count(1.5, limit)
}
