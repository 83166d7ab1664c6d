package artifact

import "video-courier/internal/logging"

// Janitor guarantees that every temporary file produced during one
// pipeline run is deleted exactly once, regardless of which stage
// terminates the run. Stages register artifacts as they are created;
// whatever is still on disk when the run ends is swept by Close.
//
// A Janitor is confined to a single job goroutine.
type Janitor struct {
	tracked []*Artifact
}

// NewJanitor returns an empty janitor for one pipeline run.
func NewJanitor() *Janitor {
	return &Janitor{}
}

// Track registers an artifact for end-of-run cleanup.
func (j *Janitor) Track(a *Artifact) {
	j.tracked = append(j.tracked, a)
}

// Close removes every tracked artifact that has not already been
// removed by its owner. Intended to be deferred for the whole run.
func (j *Janitor) Close() {
	for _, a := range j.tracked {
		if a.Removed() {
			continue
		}
		if err := a.Remove(); err != nil {
			logging.Warn("janitor: failed to remove %s: %v", a.Path(), err)
		}
	}
	j.tracked = nil
}
