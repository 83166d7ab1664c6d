package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"video-courier/internal/startup"
)

// JobSubmitter schedules background pipeline jobs. Satisfied by
// *pipeline.Runner; narrowed to an interface so handler tests can
// substitute a fake.
type JobSubmitter interface {
	Submit(url string, chatID int64)
	InFlight() int
}

// Handlers carries the dependencies of all HTTP endpoints.
type Handlers struct {
	runner    JobSubmitter
	config    *startup.Config
	startedAt time.Time
}

// New creates the handler set.
func New(runner JobSubmitter, config *startup.Config) *Handlers {
	return &Handlers{
		runner:    runner,
		config:    config,
		startedAt: time.Now(),
	}
}

// MetricsHandler returns the Prometheus metrics handler
func (h *Handlers) MetricsHandler() http.Handler {
	return promhttp.Handler()
}
