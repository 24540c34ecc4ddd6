// Package app wires the application together: it owns the logger, loads the
// plan through a format-specific loader, validates it against the action
// registry, and drives one build run from sandbox creation through result
// reporting.
package app
