package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"video-courier/internal/artifact"
	"video-courier/internal/logging"
)

const toolName = "yt-dlp"

// Config bounds a single fetch invocation. All limits are enforced by
// the downloader's own flags except the wall-clock timeout, which is
// enforced here via the command context.
type Config struct {
	WorkDir       string
	MaxInputBytes int64
	ResolutionCap int
	SocketTimeout time.Duration
	Retries       int
	CookiesFile   string
	Timeout       time.Duration
}

// Fetcher invokes yt-dlp to download a video into a fresh temporary file.
type Fetcher struct {
	cfg Config
}

// ErrTimeout is returned when the downloader exceeds the wall-clock limit.
var ErrTimeout = errors.New("fetch: wall-clock timeout exceeded")

// ErrEmptyOutput is returned when the tool reports success but the output
// file is missing or zero bytes. Some extractors exit 0 after writing
// nothing, so success is always verified against the filesystem.
var ErrEmptyOutput = errors.New("fetch: downloader produced no output")

// ToolError carries the downloader's diagnostic output after a nonzero
// exit.
type ToolError struct {
	Output string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("fetch: %s failed: %s", toolName, e.Output)
}

// New returns a Fetcher bound to the given constraints.
func New(cfg Config) *Fetcher {
	return &Fetcher{cfg: cfg}
}

// Fetch downloads the video at url into a uniquely named file under the
// work directory. On any failure the partial file is removed and a
// classified error is returned; on success the caller owns the artifact.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*artifact.Artifact, error) {
	outPath := artifact.TempPath(f.cfg.WorkDir, ".mp4")

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	args := f.args(url, outPath)
	logging.Debug("fetch: running %s %v", toolName, args)

	cmd := exec.CommandContext(ctx, toolName, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	err := cmd.Run()
	logging.Debug("fetch: %s finished in %v", toolName, time.Since(start))

	if err != nil {
		removePartial(outPath)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, &ToolError{Output: truncate(output.String(), 800)}
	}

	info, statErr := os.Stat(outPath)
	if statErr != nil || info.Size() == 0 {
		removePartial(outPath)
		return nil, ErrEmptyOutput
	}

	return artifact.New(outPath), nil
}

// args builds the yt-dlp invocation. Stream selection, input size cap,
// socket timeout and transient-error retries are all delegated to the
// tool's own flags.
func (f *Fetcher) args(url, outPath string) []string {
	args := []string{
		"--no-playlist",
		"--no-cache-dir",
		"-f", fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]",
			f.cfg.ResolutionCap, f.cfg.ResolutionCap),
		"--merge-output-format", "mp4",
		"--max-filesize", strconv.FormatInt(f.cfg.MaxInputBytes, 10),
		"--socket-timeout", strconv.Itoa(int(f.cfg.SocketTimeout.Seconds())),
		"--retries", strconv.Itoa(f.cfg.Retries),
		"-o", outPath,
	}

	if cookiesUsable(f.cfg.CookiesFile) {
		args = append(args, "--cookies", f.cfg.CookiesFile)
	}

	args = append(args, url)
	return args
}

// cookiesUsable reports whether the optional cookies file exists and is
// non-empty. An empty or missing file is silently skipped rather than
// passed to the tool, which would reject it.
func cookiesUsable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

func removePartial(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.Warn("fetch: failed to remove partial file %s: %v", path, err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
