// Package runcmd implements the 'run_command' action: one subprocess call
// with a fixed argument vector, executed with the sandbox root as working
// directory. The engine treats the command as an atomic black box; its
// combined stdout/stderr is captured for diagnostics, and a non-zero exit
// fails the build.
//
// The subprocess learns the sandbox location through the ROOTGRID_ROOTFS
// environment variable, so package-manager or provisioning wrappers can
// target the image root without the engine interpreting their semantics.
package runcmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/specialistvlad/rootgridgo/internal/ctxlog"
	"github.com/specialistvlad/rootgridgo/internal/registry"
)

// RootfsEnvVar names the environment variable carrying the sandbox root.
const RootfsEnvVar = "ROOTGRID_ROOTFS"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	// Argv is the fixed argument vector; Argv[0] is the program.
	Argv []string `hcl:"argv"`
	// Creates optionally names a sandbox path whose existence witnesses
	// that the command already ran. Without it the command always runs.
	Creates string `hcl:"creates,optional"`
	// Env adds extra environment variables for the subprocess.
	Env map[string]string `hcl:"env,optional"`
}

// check consults the optional 'creates' witness path.
func check(ctx context.Context, deps *registry.StepContext, input any) (bool, error) {
	in := input.(*Input)
	if in.Creates == "" {
		return false, nil
	}

	target, err := deps.Sandbox.ResolvePath(in.Creates)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// run executes the subprocess and waits for it to exit.
func run(ctx context.Context, deps *registry.StepContext, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	if len(in.Argv) == 0 {
		return fmt.Errorf("argv must not be empty")
	}

	cmd := exec.CommandContext(ctx, in.Argv[0], in.Argv[1:]...)
	cmd.Dir = deps.Sandbox.Root()
	cmd.Stdout = deps.Output
	cmd.Stderr = deps.Output
	cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%s", RootfsEnvVar, deps.Sandbox.Root()))
	for _, k := range sortedKeys(in.Env) {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, in.Env[k]))
	}

	logger.Debug("Running command.", "argv", in.Argv, "dir", cmd.Dir)
	if err := cmd.Run(); err != nil {
		// Let a context-driven kill surface as the context error so the
		// engine can tell a timeout from a plain non-zero exit.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("command %q exited with code %d", in.Argv[0], exitErr.ExitCode())
		}
		return fmt.Errorf("command %q could not be run: %w", in.Argv[0], err)
	}
	return nil
}

// sortedKeys keeps the appended environment deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("run_command", &registry.RegisteredAction{
		NewInput: func() any { return new(Input) },
		Check:    check,
		Run:      run,
	})
}
