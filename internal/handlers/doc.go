// Package handlers implements the HTTP endpoints: the authenticated
// /wake job submission, health and readiness probes, version info, and
// the Prometheus metrics handler.
//
// The wake endpoint is fire-and-forget: it validates, schedules the
// background pipeline, and returns 202 immediately.
package handlers
