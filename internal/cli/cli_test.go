package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_HelpFlagExitsCleanly(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "rootfs build orchestrator")
}

func TestParse_PositionalPlanPath(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, shouldExit, err := Parse([]string{"-root", "/tmp/image", "plans/base.hcl"}, out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	require.NotNil(t, config)
	assert.Equal(t, "plans/base.hcl", config.PlanPath)
	assert.Equal(t, "/tmp/image", config.RootDir)
}

func TestParse_AllFlags(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	args := []string{
		"-plan", "plans/",
		"-root", "/tmp/image",
		"-artifacts", "/tmp/artifacts",
		"-step-timeout", "10m",
		"-log-format", "json",
		"-log-level", "debug",
		"-result-format", "json",
	}
	config, shouldExit, err := Parse(args, out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	require.NotNil(t, config)
	assert.Equal(t, "plans/", config.PlanPath)
	assert.Equal(t, "/tmp/image", config.RootDir)
	assert.Equal(t, "/tmp/artifacts", config.ArtifactsDir)
	assert.Equal(t, 10*time.Minute, config.StepTimeout)
	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "json", config.ResultFormat)
	assert.False(t, config.DryRun)
}

func TestParse_DryRunNeedsNoRoot(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, shouldExit, err := Parse([]string{"-dry-run", "plans/base.hcl"}, out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	require.NotNil(t, config)
	assert.True(t, config.DryRun)
	assert.Empty(t, config.RootDir)
}

func TestParse_MissingRootFails(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, _, err := Parse([]string{"plans/base.hcl"}, out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "RootDir")
}

func TestParse_ValidationFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "bad log format",
			args: []string{"-root", "/tmp/image", "-log-format", "xml", "plans/"},
			want: "invalid log-format",
		},
		{
			name: "bad log level",
			args: []string{"-root", "/tmp/image", "-log-level", "verbose", "plans/"},
			want: "invalid log-level",
		},
		{
			name: "bad result format",
			args: []string{"-root", "/tmp/image", "-result-format", "yaml", "plans/"},
			want: "invalid result-format",
		},
		{
			name: "unknown flag",
			args: []string{"-no-such-flag", "plans/"},
			want: "flag provided but not defined",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			_, _, err := Parse(tc.args, out)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestParse_CaseInsensitiveFormats(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, _, err := Parse([]string{"-root", "/tmp/image", "-log-format", "JSON", "plans/"}, out)

	require.NoError(t, err)
	assert.Equal(t, "json", config.LogFormat)
}
