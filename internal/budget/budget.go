package budget

import (
	"errors"
	"fmt"
)

const (
	// AudioBitrateKbps is the fixed audio allocation for every encode.
	AudioBitrateKbps = 128

	// MinVideoBitrateKbps is the floor for the video allocation. Encodes
	// below this rate are unusable no matter how small the size budget
	// works out to be.
	MinVideoBitrateKbps = 100
)

// ErrInvalidDuration is returned when a budget is requested for a
// non-positive duration.
var ErrInvalidDuration = errors.New("duration must be positive")

// ErrInvalidTarget is returned when a budget is requested for a
// non-positive target size.
var ErrInvalidTarget = errors.New("target size must be positive")

// Budget is a bitrate allocation derived from a target file size and a
// media duration. It is computed per encode and never persisted.
type Budget struct {
	TargetSizeBytes  int64
	DurationSeconds  float64
	TotalBitrateKbps int
	VideoBitrateKbps int
	AudioBitrateKbps int
}

// Compute derives the bitrate allocation that fits targetSizeMB of output
// into durationSeconds of media. The audio share is fixed; the video share
// takes the remainder but never drops below MinVideoBitrateKbps.
func Compute(durationSeconds float64, targetSizeMB int) (Budget, error) {
	if durationSeconds <= 0 {
		return Budget{}, fmt.Errorf("%w: got %.2f", ErrInvalidDuration, durationSeconds)
	}
	if targetSizeMB <= 0 {
		return Budget{}, fmt.Errorf("%w: got %d", ErrInvalidTarget, targetSizeMB)
	}

	// targetMB * 1024 gives kilobits-per-megabyte * 8 bits, spread over
	// the duration. Truncation keeps the result under the target.
	total := int(float64(targetSizeMB) * 1024 * 8 / durationSeconds)

	video := total - AudioBitrateKbps
	if video < MinVideoBitrateKbps {
		video = MinVideoBitrateKbps
	}

	return Budget{
		TargetSizeBytes:  int64(targetSizeMB) * 1024 * 1024,
		DurationSeconds:  durationSeconds,
		TotalBitrateKbps: total,
		VideoBitrateKbps: video,
		AudioBitrateKbps: AudioBitrateKbps,
	}, nil
}
