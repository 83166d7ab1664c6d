// Package middleware provides HTTP middleware: access logging with
// log-injection sanitization, and Prometheus request metrics. The API
// surface here is small (a handful of fixed routes), so no path
// normalization is needed for metric cardinality.
package middleware
