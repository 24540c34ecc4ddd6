// Package sandbox owns the mutable target root filesystem of one build: a
// plain directory tree standing in for the image root. The sandbox does not
// interpret step semantics; it guarantees path containment (no step may write
// outside the root) and a one-way lifecycle: create or reopen, mutate,
// finalize. A finalized sandbox is sealed and rejects further mutation.
package sandbox
