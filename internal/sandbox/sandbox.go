package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/rootgridgo/internal/fsutil"
)

// metaDir is the directory inside the root reserved for build metadata.
const metaDir = ".rootgrid"

// Sandbox is the exclusive handle to one root directory tree for the
// duration of one build. Two concurrent builds must never share a Sandbox.
type Sandbox struct {
	root   string
	sealed bool
}

// Create initializes a sandbox over an empty root. The directory is created
// if it does not exist; an existing non-empty directory is rejected with
// ErrRootNotEmpty so a stale tree is never silently adopted.
func Create(dir string) (*Sandbox, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sandbox root %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sandbox root %s: %w", abs, err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat sandbox root %s: %w", abs, err)
	case !info.IsDir():
		return nil, fmt.Errorf("sandbox root %s is not a directory", abs)
	default:
		empty, err := fsutil.IsEmptyDir(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect sandbox root %s: %w", abs, err)
		}
		if !empty {
			return nil, fmt.Errorf("%w: %s", ErrRootNotEmpty, abs)
		}
	}

	return &Sandbox{root: abs}, nil
}

// Open reopens an existing, unsealed sandbox so a partially completed build
// can be inspected or resumed. A sealed sandbox (one with a finalize
// manifest) is rejected with ErrSealed.
func Open(dir string) (*Sandbox, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sandbox root %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat sandbox root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sandbox root %s is not a directory", abs)
	}

	if _, err := os.Stat(filepath.Join(abs, metaDir, manifestName)); err == nil {
		return nil, fmt.Errorf("%w: %s was already finalized", ErrSealed, abs)
	}

	return &Sandbox{root: abs}, nil
}

// Root returns the absolute path of the sandbox root directory.
func (s *Sandbox) Root() string {
	return s.root
}

// Sealed reports whether the sandbox has been finalized.
func (s *Sandbox) Sealed() bool {
	return s.sealed
}

// ResolvePath maps a path inside the image (absolute or relative, slash
// separated) to its real location under the sandbox root. It is the single
// gateway steps use to touch the tree: it fails with ErrPathEscape when the
// path would traverse outside the root, and with ErrSealed once the sandbox
// has been finalized. Containment is lexical; symlinks inside the tree are
// the concern of the subprocesses that created them.
func (s *Sandbox) ResolvePath(imagePath string) (string, error) {
	if s.sealed {
		return "", fmt.Errorf("%w: cannot resolve %s", ErrSealed, imagePath)
	}

	joined := filepath.Join(s.root, filepath.FromSlash(imagePath))

	rel, err := filepath.Rel(s.root, joined)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", imagePath, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, imagePath)
	}

	return joined, nil
}

// Finalize seals the sandbox, writing the build manifest into the metadata
// directory. After Finalize any further mutation fails with ErrSealed.
// Finalize on an already sealed sandbox fails the same way.
func (s *Sandbox) Finalize(m *Manifest) error {
	if s.sealed {
		return ErrSealed
	}

	if err := s.writeManifest(m); err != nil {
		return err
	}

	s.sealed = true
	return nil
}
