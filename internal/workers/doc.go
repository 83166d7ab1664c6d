// Package workers calculates concurrency bounds based on available CPU
// resources, respecting container CPU limits via GOMAXPROCS. Used to
// size the pipeline's job semaphore.
package workers
