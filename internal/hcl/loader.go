package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/rootgridgo/internal/config"
	"github.com/specialistvlad/rootgridgo/internal/ctxlog"
	"github.com/specialistvlad/rootgridgo/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL plan loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the entire HCL plan loading process. Files are visited in
// lexical path order so that declaration order, and therefore plan ordering,
// is identical across runs and platforms.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{}

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	seenIDs := make(map[string]string)

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.PlanConfig
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, step := range root.Steps {
			translated, err := l.translateStep(step)
			if err != nil {
				return nil, fmt.Errorf("invalid step in %s: %w", file, err)
			}
			if prev, dup := seenIDs[translated.ID()]; dup {
				return nil, fmt.Errorf("duplicate step id %q: declared in %s and %s", translated.ID(), prev, file)
			}
			seenIDs[translated.ID()] = file
			model.Steps = append(model.Steps, translated)
		}
	}

	logger.Debug("HCL loading complete.", "steps", len(model.Steps))
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat, lexically sorted
// list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && filepath.Ext(p) == ".hcl" {
					if _, wasSeen := seen[p]; !wasSeen {
						allFiles = append(allFiles, p)
						seen[p] = struct{}{}
					}
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("error walking path %s: %w", path, err)
			}
			continue
		}

		if _, wasSeen := seen[path]; !wasSeen {
			allFiles = append(allFiles, path)
			seen[path] = struct{}{}
		}
	}

	sort.Strings(allFiles)
	return allFiles, nil
}
