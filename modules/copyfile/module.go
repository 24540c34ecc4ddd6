// Package copyfile implements the 'copy_file' action: it copies a host file
// into the sandbox. The step is considered satisfied when the destination
// already holds content identical to the source (by SHA-256), so re-runs of
// a partial build do not rewrite files needlessly.
package copyfile

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/rootgridgo/internal/ctxlog"
	"github.com/specialistvlad/rootgridgo/internal/fsutil"
	"github.com/specialistvlad/rootgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	// Source is the file's location on the host.
	Source string `hcl:"source"`
	// Dest is the destination path relative to the image root.
	Dest string `hcl:"dest"`
	// Mode is an optional octal permission string for the copy.
	Mode string `hcl:"mode,optional"`
}

// check reports whether the destination already matches the source content.
func check(ctx context.Context, deps *registry.StepContext, input any) (bool, error) {
	in := input.(*Input)

	target, err := deps.Sandbox.ResolvePath(in.Dest)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	srcSum, err := fsutil.FileSHA256(in.Source)
	if err != nil {
		return false, fmt.Errorf("failed to hash source %s: %w", in.Source, err)
	}
	dstSum, err := fsutil.FileSHA256(target)
	if err != nil {
		return false, fmt.Errorf("failed to hash destination %s: %w", in.Dest, err)
	}
	return srcSum == dstSum, nil
}

// run copies the source into the sandbox, overwriting any stale destination.
func run(ctx context.Context, deps *registry.StepContext, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	mode, err := fsutil.ParseMode(in.Mode, 0o644)
	if err != nil {
		return err
	}

	target, err := deps.Sandbox.ResolvePath(in.Dest)
	if err != nil {
		return err
	}

	if err := fsutil.CopyFile(in.Source, target, mode); err != nil {
		return err
	}

	logger.Debug("File copied into sandbox.", "source", in.Source, "dest", in.Dest)
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("copy_file", &registry.RegisteredAction{
		NewInput: func() any { return new(Input) },
		Check:    check,
		Run:      run,
	})
}
