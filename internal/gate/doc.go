// Package gate applies size policy to artifacts at the two points where
// the pipeline inspects them: after fetch (ship or shrink) and
// immediately before delivery (ship or reject).
//
// Classification is pure apart from a single file-size stat, which the
// artifact caches, so repeated checks on an unmodified file always
// agree.
package gate
