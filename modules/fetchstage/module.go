// Package fetchstage implements the 'fetch_stage' action: it overlays an
// external artifact into the sandbox, either from the local artifact search
// directory (via glob) or from an HTTP URL. Local overlay artifacts are
// optional by contract: a glob that matches nothing stages nothing and the
// step still succeeds.
package fetchstage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/specialistvlad/rootgridgo/internal/ctxlog"
	"github.com/specialistvlad/rootgridgo/internal/fsutil"
	"github.com/specialistvlad/rootgridgo/internal/registry"
	"github.com/specialistvlad/rootgridgo/internal/sandbox"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// httpClient is shared across step executions to reuse connections. Request
// lifetimes are bounded by the step context, not a client-level timeout.
var httpClient = &http.Client{}

// Input defines the arguments for the 'arguments' HCL block. Exactly one of
// Glob or URL must be set.
type Input struct {
	// Glob selects an artifact from the search directory; the
	// lexicographically first match wins.
	Glob string `hcl:"glob,optional"`
	// URL fetches the artifact over HTTP(S).
	URL string `hcl:"url,optional"`
	// Dest is the destination path relative to the image root.
	Dest string `hcl:"dest"`
}

func validate(in *Input) error {
	if (in.Glob == "") == (in.URL == "") {
		return fmt.Errorf("exactly one of 'glob' or 'url' must be set")
	}
	return nil
}

// check reports whether the destination already holds the artifact.
func check(ctx context.Context, deps *registry.StepContext, input any) (bool, error) {
	in := input.(*Input)
	if err := validate(in); err != nil {
		return false, err
	}

	target, err := deps.Sandbox.ResolvePath(in.Dest)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	if in.URL != "" {
		// A remote artifact cannot be fingerprinted without fetching it;
		// an existing destination counts as satisfied.
		return true, nil
	}

	a, found, err := deps.Artifacts.FindFirst(ctx, in.Glob)
	if err != nil {
		return false, err
	}
	if !found {
		// Nothing to stage, and the destination exists from an earlier
		// run: leave it alone.
		return true, nil
	}

	srcSum, err := fsutil.FileSHA256(a.Path)
	if err != nil {
		return false, err
	}
	dstSum, err := fsutil.FileSHA256(target)
	if err != nil {
		return false, err
	}
	return srcSum == dstSum, nil
}

// run stages the artifact into the sandbox.
func run(ctx context.Context, deps *registry.StepContext, input any) error {
	in := input.(*Input)
	if err := validate(in); err != nil {
		return err
	}

	if in.URL != "" {
		return fetchURL(ctx, deps, in)
	}
	return stageGlob(ctx, deps, in)
}

// stageGlob resolves the glob against the search directory and stages the
// first match. No match is not an error.
func stageGlob(ctx context.Context, deps *registry.StepContext, in *Input) error {
	logger := ctxlog.FromContext(ctx)

	a, found, err := deps.Artifacts.FindFirst(ctx, in.Glob)
	if err != nil {
		return err
	}
	if !found {
		logger.Info("No artifact matched glob, nothing to stage.", "glob", in.Glob)
		return nil
	}

	staged, err := deps.Artifacts.Stage(ctx, a, deps.Sandbox, in.Dest)
	if err != nil {
		return err
	}
	deps.RecordArtifact(*staged)

	logger.Info("Artifact staged into sandbox.", "artifact", a.Name(), "dest", in.Dest)
	return nil
}

// fetchURL downloads the artifact over HTTP directly into the sandbox.
func fetchURL(ctx context.Context, deps *registry.StepContext, in *Input) error {
	logger := ctxlog.FromContext(ctx)

	target, err := deps.Sandbox.ResolvePath(in.Dest)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, in.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create fetch request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", in.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch of %s returned status %s", in.URL, resp.Status)
	}

	tmp, err := os.CreateTemp(deps.Sandbox.Root(), ".fetch-*")
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to download %s: %w", in.URL, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to finish download: %w", err)
	}

	if err := fsutil.CopyFile(tmp.Name(), target, 0o644); err != nil {
		return err
	}

	sum, err := fsutil.FileSHA256(target)
	if err != nil {
		return err
	}
	deps.RecordArtifact(sandbox.StagedArtifact{Source: in.URL, Dest: in.Dest, SHA256: sum})

	logger.Info("Artifact fetched into sandbox.", "url", in.URL, "dest", in.Dest, "sha256", sum)
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("fetch_stage", &registry.RegisteredAction{
		NewInput: func() any { return new(Input) },
		Check:    check,
		Run:      run,
	})
}
