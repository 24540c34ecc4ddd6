// Package artifact locates optional overlay files (e.g. a locally built
// package) in a search directory and stages them into the sandbox. Overlay
// artifacts are optional by contract: a glob with no match is an absence, not
// an error. When several files match, the lexicographically first name wins;
// this is the documented tie-break, not an accident of directory order.
package artifact
