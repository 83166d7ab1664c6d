package fetcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testConfig(cookies string) Config {
	return Config{
		WorkDir:       "/tmp/work",
		MaxInputBytes: 750 * 1024 * 1024,
		ResolutionCap: 720,
		SocketTimeout: 30 * time.Second,
		Retries:       3,
		CookiesFile:   cookies,
		Timeout:       5 * time.Minute,
	}
}

func TestArgs(t *testing.T) {
	f := New(testConfig(""))
	args := f.args("https://example.com/watch?v=abc", "/tmp/work/out.mp4")

	joined := strings.Join(args, " ")

	for _, want := range []string{
		"--no-playlist",
		"--no-cache-dir",
		"bestvideo[height<=720]+bestaudio/best[height<=720]",
		"--merge-output-format mp4",
		"--max-filesize 786432000",
		"--socket-timeout 30",
		"--retries 3",
		"-o /tmp/work/out.mp4",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected args to contain %q, got %q", want, joined)
		}
	}

	if strings.Contains(joined, "--cookies") {
		t.Error("Expected no --cookies flag without a cookies file")
	}

	// The URL must come last so flag parsing cannot mistake it.
	if args[len(args)-1] != "https://example.com/watch?v=abc" {
		t.Errorf("Expected URL as final argument, got %q", args[len(args)-1])
	}
}

func TestArgsWithCookies(t *testing.T) {
	dir := t.TempDir()
	cookies := filepath.Join(dir, "cookies.txt")
	if err := os.WriteFile(cookies, []byte("# Netscape HTTP Cookie File\n"), 0o600); err != nil {
		t.Fatalf("failed to write cookies file: %v", err)
	}

	f := New(testConfig(cookies))
	args := f.args("https://example.com/v", "/tmp/work/out.mp4")

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--cookies "+cookies) {
		t.Errorf("Expected --cookies %s in args, got %q", cookies, joined)
	}
}

func TestCookiesUsable(t *testing.T) {
	dir := t.TempDir()

	nonEmpty := filepath.Join(dir, "cookies.txt")
	if err := os.WriteFile(nonEmpty, []byte("data"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"Empty path", "", false},
		{"Missing file", filepath.Join(dir, "nope.txt"), false},
		{"Empty file", empty, false},
		{"Directory", dir, false},
		{"Usable", nonEmpty, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cookiesUsable(tt.path); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
	if got := truncate("0123456789abc", 10); got != "0123456789..." {
		t.Errorf("Expected truncated string, got %q", got)
	}
}

func TestToolError(t *testing.T) {
	err := &ToolError{Output: "ERROR: Video unavailable"}
	if !strings.Contains(err.Error(), "Video unavailable") {
		t.Errorf("Expected diagnostic text in error, got %q", err.Error())
	}
}
