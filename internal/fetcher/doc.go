// Package fetcher wraps the yt-dlp downloader as a bounded subprocess.
//
// Each fetch gets a fresh uniquely named output path, a format ceiling,
// an absolute input size cap, a socket timeout, a bounded retry count
// and a hard wall-clock limit. Failures are classified into timeout,
// tool failure (with diagnostic output) and empty output.
package fetcher
