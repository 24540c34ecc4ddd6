package sandbox

import "errors"

var (
	// ErrPathEscape is returned when a path would resolve outside the
	// sandbox root, e.g. via "../" traversal.
	ErrPathEscape = errors.New("path escapes sandbox root")

	// ErrSealed is returned for any mutation attempted after Finalize.
	ErrSealed = errors.New("sandbox is sealed")

	// ErrRootNotEmpty is returned by Create when the target directory
	// already has contents. Use Open to resume a partial build instead.
	ErrRootNotEmpty = errors.New("sandbox root directory is not empty")
)
