package integration_tests

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/rootgridgo/internal/sandbox"
	"github.com/specialistvlad/rootgridgo/internal/testutil"
)

func TestFullBuild_OrderedExecutionAndSealedManifest(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("plan uses a POSIX shell")
	}

	// --- Arrange ---
	planHCL := `
		step "ensure_dir" "etc" {
			arguments {
				path = "etc"
			}
		}

		step "run_command" "write_hostname" {
			depends_on = ["step.ensure_dir.etc"]

			arguments {
				argv    = ["sh", "-c", "echo buildhost > etc/hostname"]
				creates = "etc/hostname"
			}
		}

		step "fetch_stage" "overlay_wheel" {
			depends_on = ["step.run_command.write_hostname"]

			arguments {
				glob = "site-*.whl"
				dest = "opt/overlay/site.whl"
			}
		}
	`
	files := map[string]string{"main.hcl": planHCL}
	artifacts := map[string]string{"site-1.0.whl": "wheel-bytes"}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, artifacts)

	// --- Assert ---
	require.NoError(t, result.Err, "the build should succeed; logs:\n%s", result.LogOutput)

	// The sandbox holds the declared state.
	hostname, err := os.ReadFile(filepath.Join(result.RootDir, "etc", "hostname"))
	require.NoError(t, err)
	assert.Equal(t, "buildhost\n", string(hostname))

	wheel, err := os.ReadFile(filepath.Join(result.RootDir, "opt", "overlay", "site.whl"))
	require.NoError(t, err)
	assert.Equal(t, "wheel-bytes", string(wheel))

	// A successful build seals the sandbox with a manifest.
	m, err := sandbox.ReadManifest(result.RootDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"step.ensure_dir.etc",
		"step.run_command.write_hostname",
		"step.fetch_stage.overlay_wheel",
	}, m.Completed)
	require.Len(t, m.Artifacts, 1)
	assert.Equal(t, "opt/overlay/site.whl", m.Artifacts[0].Dest)
	assert.NotEmpty(t, m.BuildID)
}

func TestFullBuild_AbsentOptionalArtifactStillSucceeds(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	planHCL := `
		step "fetch_stage" "overlay_wheel" {
			arguments {
				glob = "site-*.whl"
				dest = "opt/overlay/site.whl"
			}
		}
	`
	files := map[string]string{"main.hcl": planHCL}

	// --- Act ---
	// No artifacts seeded at all.
	result := testutil.RunIntegrationTest(t, files, nil)

	// --- Assert ---
	require.NoError(t, result.Err, "logs:\n%s", result.LogOutput)

	_, statErr := os.Stat(filepath.Join(result.RootDir, "opt", "overlay", "site.whl"))
	assert.True(t, os.IsNotExist(statErr))

	m, err := sandbox.ReadManifest(result.RootDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"step.fetch_stage.overlay_wheel"}, m.Completed)
	assert.Empty(t, m.Artifacts)
}

func TestFullBuild_RootfsVariableResolvesInArguments(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("plan uses a POSIX shell")
	}

	// --- Arrange ---
	// Argument expressions can reference the sandbox location via ${rootfs}.
	planHCL := `
		step "run_command" "record_root" {
			arguments {
				argv = ["sh", "-c", "printf '%s' '${rootfs}' > root-path.txt"]
			}
		}
	`
	files := map[string]string{"main.hcl": planHCL}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, nil)

	// --- Assert ---
	require.NoError(t, result.Err, "logs:\n%s", result.LogOutput)

	recorded, err := os.ReadFile(filepath.Join(result.RootDir, "root-path.txt"))
	require.NoError(t, err)
	assert.Equal(t, result.RootDir, string(recorded))
}

func TestFullBuild_IndependentStepsFollowDeclarationOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	planHCL := `
		step "ensure_dir" "var" {
			arguments { path = "var" }
		}
		step "ensure_dir" "opt" {
			arguments { path = "opt" }
		}
		step "ensure_dir" "etc" {
			arguments { path = "etc" }
		}
	`
	files := map[string]string{"main.hcl": planHCL}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, nil)

	// --- Assert ---
	require.NoError(t, result.Err, "logs:\n%s", result.LogOutput)

	m, err := sandbox.ReadManifest(result.RootDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"step.ensure_dir.var",
		"step.ensure_dir.opt",
		"step.ensure_dir.etc",
	}, m.Completed)
}
