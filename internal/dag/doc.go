// Package dag orders the declared steps of a build plan into an executable
// sequence. Ordering uses a stable variant of Kahn's algorithm: among all
// steps whose dependencies are satisfied, the one declared first is emitted
// first. The same input therefore always yields the same plan, which is what
// makes builds reproducible and failures reportable by position.
package dag
