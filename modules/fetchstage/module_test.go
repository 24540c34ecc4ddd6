package fetchstage

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/rootgridgo/internal/artifact"
	"github.com/specialistvlad/rootgridgo/internal/ctxlog"
	"github.com/specialistvlad/rootgridgo/internal/registry"
	"github.com/specialistvlad/rootgridgo/internal/sandbox"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

// testDeps wires a sandbox and an artifact dir, recording staged artifacts.
func testDeps(t *testing.T) (*registry.StepContext, string, *[]sandbox.StagedArtifact) {
	t.Helper()
	sb, err := sandbox.Create(filepath.Join(t.TempDir(), "root"))
	require.NoError(t, err)

	artifactsDir := t.TempDir()
	var recorded []sandbox.StagedArtifact
	deps := &registry.StepContext{
		Sandbox:   sb,
		Artifacts: artifact.NewResolver(artifactsDir),
		Output:    io.Discard,
		RecordArtifact: func(a sandbox.StagedArtifact) {
			recorded = append(recorded, a)
		},
	}
	return deps, artifactsDir, &recorded
}

func TestRun_StagesGlobMatch(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	deps, artifactsDir, recorded := testDeps(t)
	require.NoError(t, os.WriteFile(filepath.Join(artifactsDir, "site-1.2.whl"), []byte("wheel-bytes"), 0644))
	in := &Input{Glob: "site-*.whl", Dest: "opt/overlay/site.whl"}

	// --- Act ---
	require.NoError(t, run(testContext(), deps, in))

	// --- Assert ---
	data, err := os.ReadFile(filepath.Join(deps.Sandbox.Root(), "opt", "overlay", "site.whl"))
	require.NoError(t, err)
	assert.Equal(t, "wheel-bytes", string(data))

	require.Len(t, *recorded, 1)
	assert.Equal(t, "opt/overlay/site.whl", (*recorded)[0].Dest)
	assert.NotEmpty(t, (*recorded)[0].SHA256)

	// The staged copy now satisfies the predicate.
	satisfied, err := check(testContext(), deps, in)
	require.NoError(t, err)
	assert.True(t, satisfied)
}

func TestRun_GlobWithoutMatchSucceedsAndStagesNothing(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	deps, _, recorded := testDeps(t)
	in := &Input{Glob: "site-*.whl", Dest: "opt/overlay/site.whl"}

	// --- Act ---
	err := run(testContext(), deps, in)

	// --- Assert ---
	require.NoError(t, err, "an absent optional artifact is success, not failure")
	assert.Empty(t, *recorded)
	_, statErr := os.Stat(filepath.Join(deps.Sandbox.Root(), "opt", "overlay", "site.whl"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_FetchesURLIntoSandbox(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tarball-bytes"))
	}))
	defer server.Close()

	deps, _, recorded := testDeps(t)
	in := &Input{URL: server.URL + "/base.tar", Dest: "tmp/base.tar"}

	// --- Act ---
	require.NoError(t, run(testContext(), deps, in))

	// --- Assert ---
	data, err := os.ReadFile(filepath.Join(deps.Sandbox.Root(), "tmp", "base.tar"))
	require.NoError(t, err)
	assert.Equal(t, "tarball-bytes", string(data))

	require.Len(t, *recorded, 1)
	assert.Equal(t, in.URL, (*recorded)[0].Source)

	// No download temp files are left behind in the root.
	entries, err := os.ReadDir(deps.Sandbox.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tmp", entries[0].Name())
}

func TestRun_HTTPErrorStatusFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	deps, _, _ := testDeps(t)
	err := run(testContext(), deps, &Input{URL: server.URL + "/missing.tar", Dest: "tmp/missing.tar"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestCheck_ExistingDestSatisfiesURLFetch(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	deps, _, _ := testDeps(t)
	dest := filepath.Join(deps.Sandbox.Root(), "tmp", "base.tar")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0755))
	require.NoError(t, os.WriteFile(dest, []byte("from an earlier run"), 0644))

	// --- Act ---
	satisfied, err := check(testContext(), deps, &Input{URL: "https://example.invalid/base.tar", Dest: "tmp/base.tar"})

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, satisfied, "an existing destination must not trigger a re-download")
}

func TestCheck_StaleGlobDestinationIsUnsatisfied(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	deps, artifactsDir, _ := testDeps(t)
	require.NoError(t, os.WriteFile(filepath.Join(artifactsDir, "site-2.0.whl"), []byte("new wheel"), 0644))

	dest := filepath.Join(deps.Sandbox.Root(), "opt", "site.whl")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0755))
	require.NoError(t, os.WriteFile(dest, []byte("old wheel"), 0644))

	// --- Act ---
	satisfied, err := check(testContext(), deps, &Input{Glob: "site-*.whl", Dest: "opt/site.whl"})

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, satisfied, "a changed artifact must be restaged")
}

func TestValidate_ExactlyOneSource(t *testing.T) {
	t.Parallel()

	deps, _, _ := testDeps(t)

	t.Run("neither glob nor url", func(t *testing.T) {
		err := run(testContext(), deps, &Input{Dest: "opt/f"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of")
	})

	t.Run("both glob and url", func(t *testing.T) {
		err := run(testContext(), deps, &Input{Glob: "*.whl", URL: "https://example.invalid/f", Dest: "opt/f"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of")
	})
}
