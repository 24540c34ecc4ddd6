// Package ensuredir implements the 'ensure_dir' action: it creates a
// directory (and any missing parents) inside the sandbox.
package ensuredir

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
	// Path is the directory to create, relative to the image root.
	Path string `hcl:"path"`
	// Mode is an optional octal permission string, e.g. "0750".
	Mode string `hcl:"mode,optional"`
}

// check reports whether the directory already exists.
func check(ctx context.Context, deps *registry.StepContext, input any) (bool, error) {
	in := input.(*Input)
	target, err := deps.Sandbox.ResolvePath(in.Path)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(target)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s exists but is not a directory", in.Path)
	}
	return true, nil
}

// run creates the directory tree.
func run(ctx context.Context, deps *registry.StepContext, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	mode, err := fsutil.ParseMode(in.Mode, 0o755)
	if err != nil {
		return err
	}

	target, err := deps.Sandbox.ResolvePath(in.Path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(target, mode); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", in.Path, err)
	}

	logger.Debug("Directory ensured.", "path", in.Path, "mode", mode)
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("ensure_dir", &registry.RegisteredAction{
		NewInput: func() any { return new(Input) },
		Check:    check,
		Run:      run,
	})
}
