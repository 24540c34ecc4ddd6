// Package executor runs an ordered build plan against a sandbox, strictly
// sequentially. Before each step it evaluates the step's idempotence
// predicate (already satisfied steps are Skipped, not re-run), and between
// steps it checks for cooperative cancellation. The first failing step halts
// the build with its captured diagnostics; the sandbox is left exactly as the
// failure found it, never rolled back.
package executor
