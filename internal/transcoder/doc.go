// Package transcoder shrinks video artifacts toward a target size using
// FFmpeg.
//
// Duration is probed with ffprobe and degrades to a conservative default
// when the probe fails. The encode is a single bounded pass at a bitrate
// computed by the budget package; failures carry the tool's diagnostic
// output and leave the input artifact untouched.
//
// Both tools must be installed and available in the system PATH.
package transcoder
