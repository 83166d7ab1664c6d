package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"video-courier/internal/artifact"
	"video-courier/internal/delivery"
	"video-courier/internal/gate"
	"video-courier/internal/logging"
	"video-courier/internal/metrics"
)

// Fetcher acquires a video into a local artifact.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*artifact.Artifact, error)
}

// Shrinker re-encodes an artifact toward a target size.
type Shrinker interface {
	Shrink(ctx context.Context, in *artifact.Artifact, targetSizeMB int) (*artifact.Artifact, error)
}

// Config holds the size policy and concurrency bound for the runner.
type Config struct {
	// SoftLimitBytes triggers a shrink pass after fetch. It sits below
	// the hard limit to leave margin for encoding overhead.
	SoftLimitBytes int64
	// HardLimitBytes is the transport's absolute payload ceiling.
	HardLimitBytes int64
	// TargetSizeMB is the shrink target handed to the transcoder.
	TargetSizeMB int
	// MaxConcurrent caps the number of jobs running at once.
	MaxConcurrent int
	// Caption is attached to every delivered video.
	Caption string
}

// SizeRejectedError marks an artifact that exceeds the hard transport
// limit after the single allowed shrink attempt.
type SizeRejectedError struct {
	MeasuredBytes int64
	LimitBytes    int64
}

func (e *SizeRejectedError) Error() string {
	return fmt.Sprintf("artifact exceeds transport limit: %d > %d bytes",
		e.MeasuredBytes, e.LimitBytes)
}

// Runner executes the fetch -> gate -> (shrink -> gate) -> deliver
// pipeline for each submitted job. Jobs run on their own goroutines,
// bounded by a semaphore; nothing mutable is shared between them.
type Runner struct {
	fetcher  Fetcher
	shrinker Shrinker
	agent    delivery.Agent
	cfg      Config

	sem      chan struct{}
	wg       sync.WaitGroup
	inFlight atomic.Int64
}

// New creates a Runner. MaxConcurrent below 1 is treated as 1.
func New(f Fetcher, s Shrinker, agent delivery.Agent, cfg Config) *Runner {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	return &Runner{
		fetcher:  f,
		shrinker: s,
		agent:    agent,
		cfg:      cfg,
		sem:      make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Submit schedules one job and returns immediately. There is no handle
// or cancellation: once started a job runs to completion and reports
// only through the delivery target.
func (r *Runner) Submit(url string, chatID int64) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.sem <- struct{}{}
		defer func() { <-r.sem }()
		r.run(url, chatID)
	}()
}

// InFlight returns the number of jobs currently executing.
func (r *Runner) InFlight() int {
	return int(r.inFlight.Load())
}

// Wait blocks until all submitted jobs have finished. Used during
// shutdown and in tests; in-flight work is best-effort and lost if the
// process exits first.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// run executes one job end to end. Every stage error is terminal for
// this job only; the janitor sweeps whatever temporary files remain on
// any exit path.
func (r *Runner) run(url string, chatID int64) {
	jobID := uuid.NewString()[:8]
	start := time.Now()

	r.inFlight.Add(1)
	metrics.JobsInFlight.Inc()
	defer func() {
		r.inFlight.Add(-1)
		metrics.JobsInFlight.Dec()
		metrics.JobDuration.Observe(time.Since(start).Seconds())
	}()

	jan := artifact.NewJanitor()
	defer jan.Close()

	ctx := context.Background()

	logging.Info("[job %s] fetching %s", jobID, url)
	fetchStart := time.Now()
	art, err := r.fetcher.Fetch(ctx, url)
	metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		metrics.FetchErrors.WithLabelValues(fetchErrorKind(err)).Inc()
		r.fail(jobID, chatID, "fetch_error", err)
		return
	}
	jan.Track(art)

	size, _ := art.Size()
	metrics.ArtifactSizeBytes.WithLabelValues("fetched").Observe(float64(size))
	logging.Info("[job %s] fetched %d bytes", jobID, size)

	decision, err := gate.AfterFetch(art, r.cfg.SoftLimitBytes)
	if err != nil {
		r.fail(jobID, chatID, "fetch_error", err)
		return
	}

	if decision == gate.NeedsShrink {
		logging.Info("[job %s] %d bytes over soft limit %d, shrinking to %dMB",
			jobID, size, r.cfg.SoftLimitBytes, r.cfg.TargetSizeMB)

		shrinkStart := time.Now()
		shrunk, err := r.shrinker.Shrink(ctx, art, r.cfg.TargetSizeMB)
		metrics.TranscodeDuration.Observe(time.Since(shrinkStart).Seconds())
		if err != nil {
			metrics.TranscodeErrors.WithLabelValues(transcodeErrorKind(err)).Inc()
			r.fail(jobID, chatID, "transcode_error", err)
			return
		}
		jan.Track(shrunk)

		// Ownership of the pre-shrink artifact ends here.
		if err := art.Remove(); err != nil {
			logging.Warn("[job %s] failed to remove pre-shrink artifact: %v", jobID, err)
		}
		art = shrunk

		shrunkSize, _ := art.Size()
		metrics.ArtifactSizeBytes.WithLabelValues("shrunk").Observe(float64(shrunkSize))
		logging.Info("[job %s] shrunk to %d bytes", jobID, shrunkSize)
	}

	// Final check against the hard limit. One shrink attempt is the
	// policy; an oversized result here is terminal.
	decision, err = gate.BeforeDelivery(art, r.cfg.HardLimitBytes)
	if err != nil {
		r.fail(jobID, chatID, "transcode_error", err)
		return
	}
	if decision == gate.Reject {
		finalSize, _ := art.Size()
		r.fail(jobID, chatID, "size_rejected", &SizeRejectedError{
			MeasuredBytes: finalSize,
			LimitBytes:    r.cfg.HardLimitBytes,
		})
		return
	}

	if err := r.agent.SendArtifact(chatID, art.Path(), r.cfg.Caption); err != nil {
		metrics.DeliveriesTotal.WithLabelValues("artifact", "error").Inc()
		r.fail(jobID, chatID, "delivery_error", err)
		return
	}
	metrics.DeliveriesTotal.WithLabelValues("artifact", "success").Inc()
	metrics.JobsTotal.WithLabelValues("success").Inc()
	logging.Info("[job %s] delivered to chat %d in %v", jobID, chatID, time.Since(start))
}

// fail records the terminal outcome and sends a best-effort user-facing
// notice. The raw error stays in the operator log; the chat gets a
// category, not internals. A notice failure is logged and swallowed.
func (r *Runner) fail(jobID string, chatID int64, outcome string, err error) {
	metrics.JobsTotal.WithLabelValues(outcome).Inc()
	logging.Error("[job %s] failed (%s): %v", jobID, outcome, err)

	if noticeErr := r.agent.SendNotice(chatID, noticeFor(err)); noticeErr != nil {
		metrics.DeliveriesTotal.WithLabelValues("notice", "error").Inc()
		logging.Warn("[job %s] failed to send failure notice: %v", jobID, noticeErr)
		return
	}
	metrics.DeliveriesTotal.WithLabelValues("notice", "success").Inc()
}
