package pipeline

import (
	"errors"
	"strings"

	"video-courier/internal/delivery"
	"video-courier/internal/fetcher"
	"video-courier/internal/transcoder"
)

// User-facing failure categories. The raw internal error never reaches
// the chat.
const (
	noticeFormatUnavailable = "Sorry, that video is unavailable or has no downloadable format."
	noticeAuthRequired      = "Sorry, that video requires a sign-in upstream and could not be fetched."
	noticeOversized         = "Sorry, that video is too large to deliver, even after compression."
	noticeGeneric           = "Sorry, something went wrong while preparing your video."
)

// noticeFor maps an internal pipeline error to the text sent to the
// requester's chat.
func noticeFor(err error) string {
	var sizeErr *SizeRejectedError
	if errors.As(err, &sizeErr) || errors.Is(err, delivery.ErrPayloadTooLarge) {
		return noticeOversized
	}

	var toolErr *fetcher.ToolError
	if errors.As(err, &toolErr) {
		out := strings.ToLower(toolErr.Output)
		switch {
		case strings.Contains(out, "sign in") ||
			strings.Contains(out, "login required") ||
			strings.Contains(out, "authentication"):
			return noticeAuthRequired
		case strings.Contains(out, "requested format is not available") ||
			strings.Contains(out, "video unavailable") ||
			strings.Contains(out, "unsupported url"):
			return noticeFormatUnavailable
		}
	}

	return noticeGeneric
}

// fetchErrorKind labels a fetch failure for metrics.
func fetchErrorKind(err error) string {
	switch {
	case errors.Is(err, fetcher.ErrTimeout):
		return "timeout"
	case errors.Is(err, fetcher.ErrEmptyOutput):
		return "empty_output"
	default:
		return "tool_failure"
	}
}

// transcodeErrorKind labels a transcode failure for metrics.
func transcodeErrorKind(err error) string {
	if errors.Is(err, transcoder.ErrEncodeTimeout) {
		return "timeout"
	}
	return "encode_failure"
}
