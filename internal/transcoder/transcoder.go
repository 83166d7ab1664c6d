package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"video-courier/internal/artifact"
	"video-courier/internal/budget"
	"video-courier/internal/logging"
	"video-courier/internal/metrics"
)

const (
	encoderTool = "ffmpeg"
	proberTool  = "ffprobe"

	// DefaultDurationSeconds is substituted when the probe fails. The
	// job degrades to a representative duration instead of aborting.
	DefaultDurationSeconds = 60.0

	// Single-pass encoding is a deliberate trade-off: a two-pass scheme
	// roughly doubles wall-clock time for marginal size accuracy on
	// this workload. Tune the preset here if that changes.
	encodePreset = "fast"
	videoCodec   = "libx264"
	audioCodec   = "aac"
)

// Config bounds a single shrink invocation.
type Config struct {
	WorkDir      string
	Timeout      time.Duration
	ProbeTimeout time.Duration
}

// Transcoder invokes ffmpeg to shrink an artifact toward a target size.
type Transcoder struct {
	cfg Config
}

// ErrEncodeTimeout is returned when the encoder exceeds the wall-clock
// limit.
var ErrEncodeTimeout = errors.New("transcode: wall-clock timeout exceeded")

// EncodeError carries the encoder's diagnostic output after a failure.
type EncodeError struct {
	Detail string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("transcode: %s failed: %s", encoderTool, e.Detail)
}

// New returns a Transcoder bound to the given limits.
func New(cfg Config) *Transcoder {
	return &Transcoder{cfg: cfg}
}

// ProbeDuration returns the media duration in seconds as reported by
// ffprobe.
func (t *Transcoder) ProbeDuration(ctx context.Context, path string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.ProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, proberTool,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("probe: %w - %s", err, strings.TrimSpace(stderr.String()))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("probe: unparseable duration %q", stdout.String())
	}
	if duration <= 0 {
		return 0, fmt.Errorf("probe: non-positive duration %.2f", duration)
	}
	return duration, nil
}

// Shrink re-encodes the input artifact toward targetSizeMB in a single
// pass at a bitrate computed from the probed duration. The output goes
// to a new temporary path; the input is left untouched and stays owned
// by the caller. On failure the partial output is removed.
func (t *Transcoder) Shrink(ctx context.Context, in *artifact.Artifact, targetSizeMB int) (*artifact.Artifact, error) {
	duration, err := t.ProbeDuration(ctx, in.Path())
	if err != nil {
		// Degrade, don't abort: a representative duration still
		// produces a usable encode.
		logging.Warn("transcode: probe failed, degraded to default %.0fs duration: %v",
			DefaultDurationSeconds, err)
		metrics.TranscodeProbeFallbacks.Inc()
		duration = DefaultDurationSeconds
	}

	b, err := budget.Compute(duration, targetSizeMB)
	if err != nil {
		return nil, fmt.Errorf("transcode: %w", err)
	}

	outPath := artifact.TempPath(t.cfg.WorkDir, ".mp4")

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	args := encodeArgs(in.Path(), outPath, b)
	logging.Debug("transcode: running %s %v", encoderTool, args)

	cmd := exec.CommandContext(ctx, encoderTool, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	logging.Debug("transcode: %s finished in %v", encoderTool, time.Since(start))

	if runErr != nil {
		removePartial(outPath)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrEncodeTimeout
		}
		return nil, &EncodeError{Detail: truncate(stderr.String(), 800)}
	}

	return artifact.New(outPath), nil
}

// encodeArgs builds the single-pass ffmpeg invocation for the computed
// budget. maxrate/bufsize keep the rate control honest near the target.
func encodeArgs(inPath, outPath string, b budget.Budget) []string {
	video := strconv.Itoa(b.VideoBitrateKbps)
	audio := strconv.Itoa(b.AudioBitrateKbps)

	return []string{
		"-y",
		"-i", inPath,
		"-c:v", videoCodec,
		"-preset", encodePreset,
		"-b:v", video + "k",
		"-maxrate", video + "k",
		"-bufsize", strconv.Itoa(b.VideoBitrateKbps*2) + "k",
		"-c:a", audioCodec,
		"-b:a", audio + "k",
		"-movflags", "+faststart",
		outPath,
	}
}

func removePartial(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.Warn("transcode: failed to remove partial file %s: %v", path, err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
