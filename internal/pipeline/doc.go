// Package pipeline runs one submitted video job end to end: fetch, size
// check, optional single shrink pass, final size check, delivery.
//
// Each job runs on its own goroutine behind a concurrency semaphore and
// owns its temporary files exclusively; a run-scoped janitor deletes
// them exactly once on every exit path. Stage errors are terminal for
// that job only and are reported to the requester's chat as a
// user-facing category while the raw error goes to the operator log.
package pipeline
