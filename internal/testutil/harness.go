package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/rootgridgo/internal/app"
	"github.com/specialistvlad/rootgridgo/internal/hcl"
	"github.com/specialistvlad/rootgridgo/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App

	// RootDir is the sandbox root the build ran against.
	RootDir string
	// ArtifactsDir is the overlay search directory prepared for the run.
	ArtifactsDir string
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, planFiles map[string]string, artifacts map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, planFiles, artifacts, modules...)
}

// RunIntegrationTestWithContext provides a standardized harness for running integration
// tests with a specific context provided by the caller.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, planFiles map[string]string, artifacts map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()

	planDir := filepath.Join(tmpDir, "plan")
	rootDir := filepath.Join(tmpDir, "root")
	artifactsDir := filepath.Join(tmpDir, "artifacts")
	require.NoError(t, os.Mkdir(planDir, 0755))
	require.NoError(t, os.Mkdir(artifactsDir, 0755))

	// Write the plan files. Relative paths create their own subdirectories.
	for name, content := range planFiles {
		filePath := filepath.Join(planDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	// Seed the artifact search directory.
	for name, content := range artifacts {
		filePath := filepath.Join(artifactsDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	appConfig, err := app.NewConfig(app.Config{
		PlanPath:     planDir,
		RootDir:      rootDir,
		ArtifactsDir: artifactsDir,
		LogLevel:     "debug",
		LogFormat:    "text",
		ResultFormat: "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, hcl.NewLoader(), modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput:    logBuffer.String(),
			Err:          fmt.Errorf("application startup panicked | %v", panicErr),
			App:          nil,
			RootDir:      rootDir,
			ArtifactsDir: artifactsDir,
		}
	}

	runErr := testApp.Run(ctx)

	return &HarnessResult{
		LogOutput:    logBuffer.String(),
		Err:          runErr,
		App:          testApp,
		RootDir:      rootDir,
		ArtifactsDir: artifactsDir,
	}
}
