// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes every run, with its report, to w as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(runs); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return nil
}

// ExportJSON writes every run, with its report, to w as a JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(runs); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) exportRuns(ctx context.Context) ([]Run, error) {
	listed, err := s.List(ctx, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	runs := make([]Run, 0, len(listed))
	for _, r := range listed {
		full, err := s.Get(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		runs = append(runs, full)
	}
	return runs, nil
}
