// Package startup handles process initialization: environment
// configuration with validation, the startup banner and system
// information, work directory setup, external tool checks, build
// information, and the structured startup/shutdown log output.
package startup
