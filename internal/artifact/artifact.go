package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Artifact is a temporary media file owned by exactly one pipeline stage
// at a time. The size is measured lazily on first use and cached; the
// file is removed at most once.
//
// An Artifact is confined to the goroutine of the job that produced it,
// so no locking is done here.
type Artifact struct {
	path     string
	size     int64
	measured bool
	removed  bool
}

// New wraps an existing file path as an Artifact.
func New(path string) *Artifact {
	return &Artifact{path: path}
}

// TempPath returns a fresh collision-free file path under dir. Concurrent
// jobs share the same directory, so names must never repeat.
func TempPath(dir, ext string) string {
	return filepath.Join(dir, uuid.NewString()+ext)
}

// Path returns the location of the underlying file.
func (a *Artifact) Path() string {
	return a.path
}

// Size returns the file size in bytes, measuring it on first call.
func (a *Artifact) Size() (int64, error) {
	if a.measured {
		return a.size, nil
	}
	info, err := os.Stat(a.path)
	if err != nil {
		return 0, fmt.Errorf("measure artifact: %w", err)
	}
	a.size = info.Size()
	a.measured = true
	return a.size, nil
}

// Remove deletes the underlying file. A second call is a no-op so that
// an owner handing off mid-pipeline and the run-scoped janitor cannot
// double-delete.
func (a *Artifact) Remove() error {
	if a.removed {
		return nil
	}
	a.removed = true
	if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

// Removed reports whether Remove has already run.
func (a *Artifact) Removed() bool {
	return a.removed
}
