package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"video-courier/internal/artifact"
	"video-courier/internal/fetcher"
	"video-courier/internal/transcoder"
)

// fakeFetcher writes a real file of the configured size so that gate
// classification runs against the filesystem, as in production.
type fakeFetcher struct {
	dir  string
	size int
	err  error

	mu    sync.Mutex
	paths []string
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*artifact.Artifact, error) {
	if f.err != nil {
		return nil, f.err
	}
	path := artifact.TempPath(f.dir, ".mp4")
	if err := os.WriteFile(path, make([]byte, f.size), 0o644); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	return artifact.New(path), nil
}

type fakeShrinker struct {
	dir  string
	size int
	err  error

	mu      sync.Mutex
	calls   int
	targets []int
	inputs  []string
}

func (s *fakeShrinker) Shrink(_ context.Context, in *artifact.Artifact, targetSizeMB int) (*artifact.Artifact, error) {
	s.mu.Lock()
	s.calls++
	s.targets = append(s.targets, targetSizeMB)
	s.inputs = append(s.inputs, in.Path())
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	path := artifact.TempPath(s.dir, ".mp4")
	if err := os.WriteFile(path, make([]byte, s.size), 0o644); err != nil {
		return nil, err
	}
	return artifact.New(path), nil
}

func (s *fakeShrinker) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeAgent struct {
	artifactErr error
	noticeErr   error

	// onSendArtifact lets a test inspect filesystem state at the exact
	// moment of delivery.
	onSendArtifact func(path string)

	mu        sync.Mutex
	artifacts []string
	notices   []string
}

func (a *fakeAgent) SendArtifact(_ int64, path, _ string) error {
	if a.onSendArtifact != nil {
		a.onSendArtifact(path)
	}
	if a.artifactErr != nil {
		return a.artifactErr
	}
	a.mu.Lock()
	a.artifacts = append(a.artifacts, path)
	a.mu.Unlock()
	return nil
}

func (a *fakeAgent) SendNotice(_ int64, text string) error {
	if a.noticeErr != nil {
		return a.noticeErr
	}
	a.mu.Lock()
	a.notices = append(a.notices, text)
	a.mu.Unlock()
	return nil
}

func (a *fakeAgent) counts() (artifacts, notices int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.artifacts), len(a.notices)
}

// Size policy used throughout: byte-scale stand-ins for the production
// 48MB soft / 50MB hard limits.
func testPolicy() Config {
	return Config{
		SoftLimitBytes: 48,
		HardLimitBytes: 50,
		TargetSizeMB:   48,
		MaxConcurrent:  4,
		Caption:        "done",
	}
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 temp files after run, got %d", len(entries))
	}
}

func TestDirectDelivery(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{dir: dir, size: 30}
	s := &fakeShrinker{dir: dir}
	a := &fakeAgent{}

	r := New(f, s, a, testPolicy())
	r.Submit("https://example.com/v", 42)
	r.Wait()

	if s.callCount() != 0 {
		t.Errorf("Expected no shrink for artifact under soft limit, got %d calls", s.calls)
	}
	artifacts, notices := a.counts()
	if artifacts != 1 {
		t.Errorf("Expected 1 delivered artifact, got %d", artifacts)
	}
	if notices != 0 {
		t.Errorf("Expected 0 notices on success, got %d", notices)
	}
	requireEmptyDir(t, dir)
}

func TestShrinkThenDelivery(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{dir: dir, size: 60}
	s := &fakeShrinker{dir: dir, size: 40}
	a := &fakeAgent{}

	var preShrinkGone, postShrinkPresent bool
	a.onSendArtifact = func(path string) {
		f.mu.Lock()
		fetched := f.paths[0]
		f.mu.Unlock()
		_, err := os.Stat(fetched)
		preShrinkGone = os.IsNotExist(err)
		_, err = os.Stat(path)
		postShrinkPresent = err == nil
	}

	r := New(f, s, a, testPolicy())
	r.Submit("https://example.com/v", 42)
	r.Wait()

	if s.callCount() != 1 {
		t.Fatalf("Expected exactly 1 shrink call, got %d", s.calls)
	}
	if s.targets[0] != 48 {
		t.Errorf("Expected shrink target 48MB, got %d", s.targets[0])
	}
	if !preShrinkGone {
		t.Error("Expected pre-shrink artifact to be deleted before delivery")
	}
	if !postShrinkPresent {
		t.Error("Expected post-shrink artifact to exist at delivery")
	}

	artifacts, notices := a.counts()
	if artifacts != 1 || notices != 0 {
		t.Errorf("Expected 1 artifact and 0 notices, got %d and %d", artifacts, notices)
	}
	requireEmptyDir(t, dir)
}

func TestSizeRejectedAfterShrink(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{dir: dir, size: 60}
	s := &fakeShrinker{dir: dir, size: 52} // still over the hard limit
	a := &fakeAgent{}

	r := New(f, s, a, testPolicy())
	r.Submit("https://example.com/v", 42)
	r.Wait()

	artifacts, notices := a.counts()
	if artifacts != 0 {
		t.Errorf("Expected no artifact delivery for oversized result, got %d", artifacts)
	}
	if notices != 1 {
		t.Errorf("Expected exactly 1 failure notice, got %d", notices)
	}
	if s.callCount() != 1 {
		t.Errorf("Expected exactly 1 shrink attempt (no retry loop), got %d", s.calls)
	}
	requireEmptyDir(t, dir)
}

func TestFetchFailure(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{dir: dir, err: fetcher.ErrTimeout}
	s := &fakeShrinker{dir: dir}
	a := &fakeAgent{}

	r := New(f, s, a, testPolicy())
	r.Submit("https://example.com/v", 42)
	r.Wait()

	artifacts, notices := a.counts()
	if artifacts != 0 || notices != 1 {
		t.Errorf("Expected 0 artifacts and 1 notice, got %d and %d", artifacts, notices)
	}
	requireEmptyDir(t, dir)
}

func TestShrinkFailureCleansFetchedArtifact(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{dir: dir, size: 60}
	s := &fakeShrinker{dir: dir, err: transcoder.ErrEncodeTimeout}
	a := &fakeAgent{}

	r := New(f, s, a, testPolicy())
	r.Submit("https://example.com/v", 42)
	r.Wait()

	artifacts, notices := a.counts()
	if artifacts != 0 || notices != 1 {
		t.Errorf("Expected 0 artifacts and 1 notice, got %d and %d", artifacts, notices)
	}
	requireEmptyDir(t, dir)
}

func TestDeliveryFailure(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{dir: dir, size: 30}
	s := &fakeShrinker{dir: dir}
	a := &fakeAgent{artifactErr: errors.New("transport down")}

	r := New(f, s, a, testPolicy())
	r.Submit("https://example.com/v", 42)
	r.Wait()

	_, notices := a.counts()
	if notices != 1 {
		t.Errorf("Expected exactly 1 failure notice, got %d", notices)
	}
	requireEmptyDir(t, dir)
}

func TestNoticeFailureDoesNotPanic(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{dir: dir, err: fetcher.ErrEmptyOutput}
	s := &fakeShrinker{dir: dir}
	a := &fakeAgent{noticeErr: errors.New("chat gone")}

	r := New(f, s, a, testPolicy())
	r.Submit("https://example.com/v", 42)
	r.Wait() // must terminate without panicking

	requireEmptyDir(t, dir)
}

func TestConcurrentJobs(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{dir: dir, size: 30}
	s := &fakeShrinker{dir: dir}
	a := &fakeAgent{}

	r := New(f, s, a, testPolicy())
	const jobs = 10
	for i := 0; i < jobs; i++ {
		r.Submit(fmt.Sprintf("https://example.com/v%d", i), int64(i+1))
	}
	r.Wait()

	// Every job fetched to a distinct path.
	f.mu.Lock()
	seen := make(map[string]bool, len(f.paths))
	for _, p := range f.paths {
		if seen[p] {
			t.Errorf("Duplicate artifact path across jobs: %s", p)
		}
		seen[p] = true
	}
	fetched := len(f.paths)
	f.mu.Unlock()

	if fetched != jobs {
		t.Errorf("Expected %d fetches, got %d", jobs, fetched)
	}
	artifacts, notices := a.counts()
	if artifacts != jobs || notices != 0 {
		t.Errorf("Expected %d deliveries and 0 notices, got %d and %d", jobs, artifacts, notices)
	}
	if r.InFlight() != 0 {
		t.Errorf("Expected 0 jobs in flight after Wait, got %d", r.InFlight())
	}
	requireEmptyDir(t, dir)
}
