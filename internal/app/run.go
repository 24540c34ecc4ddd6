package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/specialistvlad/rootgridgo/internal/artifact"
	"github.com/specialistvlad/rootgridgo/internal/ctxlog"
	"github.com/specialistvlad/rootgridgo/internal/dag"
	"github.com/specialistvlad/rootgridgo/internal/executor"
	"github.com/specialistvlad/rootgridgo/internal/fsutil"
	"github.com/specialistvlad/rootgridgo/internal/sandbox"
)

// ErrBuildFailed is returned by Run when the build result is not a success,
// so callers can map it to a non-zero exit code. The details live in the
// rendered result, not in this error.
var ErrBuildFailed = errors.New("build did not succeed")

// Run executes one build based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	plan, err := dag.Build(ctx, a.model)
	if err != nil {
		return fmt.Errorf("failed to build execution plan: %w", err)
	}
	a.logger.Debug("Execution plan built.", "step_count", len(plan.Steps))

	if a.config.DryRun {
		a.printPlan(plan)
		return nil
	}

	sb, err := a.openSandbox()
	if err != nil {
		return fmt.Errorf("failed to prepare sandbox: %w", err)
	}

	resolver := artifact.NewResolver(a.config.ArtifactsDir)

	timeout := a.config.StepTimeout
	if timeout == 0 {
		timeout = executor.DefaultStepTimeout
	}

	exec := executor.New(plan, sb, resolver, a.registry, timeout)
	result, err := exec.Run(ctx)
	if err != nil {
		return fmt.Errorf("execution could not start: %w", err)
	}

	// Only a successful build is sealed; failed and cancelled sandboxes
	// stay open so their partial state can be inspected or resumed.
	if result.Status == executor.StatusSuccess {
		if err := sb.Finalize(exec.Manifest(result)); err != nil {
			return fmt.Errorf("failed to finalize sandbox: %w", err)
		}
		a.logger.Info("Sandbox finalized.", "root", sb.Root())
	}

	if err := a.printResult(result); err != nil {
		return err
	}

	if result.Status != executor.StatusSuccess {
		return fmt.Errorf("%w: status %s", ErrBuildFailed, result.Status)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// openSandbox creates a fresh sandbox, or reopens an existing unsealed one
// so a partially completed build can resume.
func (a *App) openSandbox() (*sandbox.Sandbox, error) {
	info, err := os.Stat(a.config.RootDir)
	if os.IsNotExist(err) {
		return sandbox.Create(a.config.RootDir)
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sandbox root %s is not a directory", a.config.RootDir)
	}

	empty, err := fsutil.IsEmptyDir(a.config.RootDir)
	if err != nil {
		return nil, err
	}
	if empty {
		return sandbox.Create(a.config.RootDir)
	}

	a.logger.Info("Reopening existing sandbox for resume.", "root", a.config.RootDir)
	return sandbox.Open(a.config.RootDir)
}
