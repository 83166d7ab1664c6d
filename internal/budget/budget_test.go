package budget

import (
	"errors"
	"testing"
)

func TestComputeScenario(t *testing.T) {
	// 48MB target over 120s: floor(48*1024*8/120) = 3276 total,
	// 3276-128 = 3148 video.
	b, err := Compute(120, 48)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if b.TotalBitrateKbps != 3276 {
		t.Errorf("Expected TotalBitrateKbps=3276, got %d", b.TotalBitrateKbps)
	}
	if b.VideoBitrateKbps != 3148 {
		t.Errorf("Expected VideoBitrateKbps=3148, got %d", b.VideoBitrateKbps)
	}
	if b.AudioBitrateKbps != 128 {
		t.Errorf("Expected AudioBitrateKbps=128, got %d", b.AudioBitrateKbps)
	}
	if b.TargetSizeBytes != 48*1024*1024 {
		t.Errorf("Expected TargetSizeBytes=%d, got %d", 48*1024*1024, b.TargetSizeBytes)
	}
}

func TestComputeVideoFloor(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		targetMB int
	}{
		{"TinyTarget", 120, 1},
		{"HugeDuration", 86400, 10},
		{"BothExtreme", 360000, 1},
		{"BarelyAboveAudio", 3600, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Compute(tt.duration, tt.targetMB)
			if err != nil {
				t.Fatalf("Compute returned error: %v", err)
			}
			if b.VideoBitrateKbps < MinVideoBitrateKbps {
				t.Errorf("Video bitrate %d below floor %d", b.VideoBitrateKbps, MinVideoBitrateKbps)
			}
		})
	}
}

func TestComputeMonotonicInDuration(t *testing.T) {
	// For a fixed target, a longer duration must never get a higher
	// total bitrate.
	prev := -1
	for _, d := range []float64{10, 30, 60, 120, 300, 600, 3600} {
		b, err := Compute(d, 48)
		if err != nil {
			t.Fatalf("Compute(%f, 48) returned error: %v", d, err)
		}
		if prev != -1 && b.TotalBitrateKbps > prev {
			t.Errorf("Total bitrate increased from %d to %d at duration %f", prev, b.TotalBitrateKbps, d)
		}
		prev = b.TotalBitrateKbps
	}
}

func TestComputeInvalidInputs(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		targetMB int
		want     error
	}{
		{"ZeroDuration", 0, 48, ErrInvalidDuration},
		{"NegativeDuration", -5, 48, ErrInvalidDuration},
		{"ZeroTarget", 120, 0, ErrInvalidTarget},
		{"NegativeTarget", 120, -1, ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.duration, tt.targetMB)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected error %v, got %v", tt.want, err)
			}
		})
	}
}
