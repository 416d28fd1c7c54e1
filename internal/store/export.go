// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes run runID to dir/<runID>.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, runID string) (string, error) {
	plan, err := s.LoadRun(ctx, runID)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(runID+".yaml", data)
}

// ExportJSON writes run runID to dir/<runID>.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, runID string) (string, error) {
	plan, err := s.LoadRun(ctx, runID)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(runID+".json", data)
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}
