package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/specialistvlad/rootgridgo/internal/ctxlog"
	"github.com/specialistvlad/rootgridgo/internal/fsutil"
	"github.com/specialistvlad/rootgridgo/internal/sandbox"
)

// Artifact is one external file selected for staging. The original is never
// modified; staging copies it into the sandbox.
type Artifact struct {
	// Path is the artifact's location on the host.
	Path string
}

// Name returns the artifact's base file name.
func (a *Artifact) Name() string {
	return filepath.Base(a.Path)
}

// StageError reports a failed copy of an artifact into the sandbox.
type StageError struct {
	Artifact string
	Dest     string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("failed to stage artifact %s to %s: %v", e.Artifact, e.Dest, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Resolver finds artifacts in a single search directory.
type Resolver struct {
	searchDir string
}

// NewResolver creates a resolver over the given search directory. The
// directory may be empty or missing; resolution then finds nothing.
func NewResolver(searchDir string) *Resolver {
	return &Resolver{searchDir: searchDir}
}

// SearchDir returns the directory this resolver searches.
func (r *Resolver) SearchDir() string {
	return r.searchDir
}

// FindFirst returns the single best match for the glob pattern: the first
// match in lexicographic name order. The second return value is false when
// nothing matches, which is not an error.
func (r *Resolver) FindFirst(ctx context.Context, pattern string) (*Artifact, bool, error) {
	logger := ctxlog.FromContext(ctx)

	if r.searchDir == "" {
		return nil, false, nil
	}
	if _, err := os.Stat(r.searchDir); os.IsNotExist(err) {
		logger.Debug("Artifact search directory does not exist.", "dir", r.searchDir)
		return nil, false, nil
	}

	matches, err := filepath.Glob(filepath.Join(r.searchDir, pattern))
	if err != nil {
		return nil, false, fmt.Errorf("invalid artifact glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		logger.Debug("No artifact matched glob.", "pattern", pattern, "dir", r.searchDir)
		return nil, false, nil
	}

	// First match wins, by name order.
	sort.Strings(matches)
	logger.Debug("Artifact resolved.", "pattern", pattern, "match", matches[0], "candidates", len(matches))
	return &Artifact{Path: matches[0]}, true, nil
}

// Stage copies the artifact into the sandbox at the given image path and
// returns the staged record with the content digest. Staging the same
// artifact twice overwrites the destination rather than erroring. Any copy
// failure surfaces as a StageError.
func (r *Resolver) Stage(ctx context.Context, a *Artifact, sb *sandbox.Sandbox, dest string) (*sandbox.StagedArtifact, error) {
	logger := ctxlog.FromContext(ctx)

	target, err := sb.ResolvePath(dest)
	if err != nil {
		return nil, &StageError{Artifact: a.Path, Dest: dest, Err: err}
	}

	if err := fsutil.CopyFile(a.Path, target, 0o644); err != nil {
		return nil, &StageError{Artifact: a.Path, Dest: dest, Err: err}
	}

	sum, err := fsutil.FileSHA256(target)
	if err != nil {
		return nil, &StageError{Artifact: a.Path, Dest: dest, Err: err}
	}

	logger.Debug("Artifact staged.", "artifact", a.Path, "dest", dest, "sha256", sum)
	return &sandbox.StagedArtifact{Source: a.Path, Dest: dest, SHA256: sum}, nil
}
