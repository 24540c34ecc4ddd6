// Package registry maps action type names (e.g. "run_command") to their Go
// implementations. Action packages under modules/ register themselves here via
// the Module interface; the executor looks actions up by the step's first
// label. The registry also validates, before any execution starts, that every
// action a plan references is actually implemented.
package registry
