// Package artifact tracks the temporary media files that flow through
// the pipeline.
//
// Each artifact has exactly one owner at a time, its size is measured
// lazily, and a run-scoped Janitor guarantees exactly-once deletion on
// every exit path, success or failure.
package artifact
