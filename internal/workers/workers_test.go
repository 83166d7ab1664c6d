package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
	}{
		{"CPU", 1.0, 0},
		{"IO", 2.0, 0},
		{"Mixed", 1.5, 0},
		{"Limited", 2.0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.multiplier, tt.limit)
			if got < 1 {
				t.Errorf("Expected at least 1 worker, got %d", got)
			}
			if tt.limit > 0 && got > tt.limit {
				t.Errorf("Expected at most %d workers, got %d", tt.limit, got)
			}
			if tt.limit == 0 {
				want := int(float64(available) * tt.multiplier)
				if want < 1 {
					want = 1
				}
				if got != want {
					t.Errorf("Expected %d workers for multiplier %v, got %d", want, tt.multiplier, got)
				}
			}
		})
	}
}

func TestCountEnvOverride(t *testing.T) {
	t.Setenv("JOB_WORKERS", "3")
	if got := Count(1.0, 0); got != 3 {
		t.Errorf("Expected override of 3, got %d", got)
	}
	if got := Count(1.0, 2); got != 2 {
		t.Errorf("Expected limit to cap override at 2, got %d", got)
	}
}

func TestCountEnvOverrideInvalid(t *testing.T) {
	available := runtime.GOMAXPROCS(0)

	for _, bad := range []string{"zero", "0", "-4"} {
		t.Run(bad, func(t *testing.T) {
			t.Setenv("JOB_WORKERS", bad)
			want := available
			if want < 1 {
				want = 1
			}
			if got := Count(1.0, 0); got != want {
				t.Errorf("Expected computed count %d for invalid override, got %d", want, got)
			}
		})
	}
}

func TestProfiles(t *testing.T) {
	if ForIO(0) < ForCPU(0) {
		t.Error("Expected I/O profile to allow at least as many workers as CPU profile")
	}
	if ForMixed(0) < ForCPU(0) {
		t.Error("Expected mixed profile to allow at least as many workers as CPU profile")
	}
}
