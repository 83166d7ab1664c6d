// Package logging provides leveled logging for the whole service.
//
// The level is controlled by the DEBUG and LOG_LEVEL environment
// variables and read once at first use. Output goes through the standard
// log package with a level prefix.
package logging
