// Package budget computes bitrate allocations for size-targeted encodes.
//
// Given a media duration and a target output size it splits the available
// bits between a fixed audio share and a video share with a hard floor,
// so the transcoder always gets workable encoder parameters even for
// pathologically long inputs.
package budget
