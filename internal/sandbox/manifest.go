package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// manifestName is the file name of the finalize manifest inside metaDir.
const manifestName = "manifest.yaml"

// Manifest records what a finalized sandbox contains. Its presence marks the
// sandbox as sealed across process restarts.
type Manifest struct {
	BuildID    string    `yaml:"build_id"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`

	// Completed and Skipped hold step IDs in execution order.
	Completed []string `yaml:"completed_steps"`
	Skipped   []string `yaml:"skipped_steps,omitempty"`

	// Artifacts lists files overlaid into the root during the build.
	Artifacts []StagedArtifact `yaml:"artifacts,omitempty"`
}

// StagedArtifact identifies one file staged into the sandbox.
type StagedArtifact struct {
	Source string `yaml:"source"`
	Dest   string `yaml:"dest"`
	SHA256 string `yaml:"sha256"`
}

// writeManifest serializes the manifest into the metadata directory.
func (s *Sandbox) writeManifest(m *Manifest) error {
	dir := filepath.Join(s.root, metaDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, manifestName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the finalize manifest from a sealed sandbox root.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, metaDir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}
