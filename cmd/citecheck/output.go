// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citecheck/internal/analyze"
	"github.com/pdiddy/citecheck/pkg/types"
)

// fileReport is the serialized form of one analyzed file.
type fileReport struct {
	Path   string        `json:"path" yaml:"path"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty"`
	Report *types.Report `json:"report,omitempty" yaml:"report,omitempty"`
}

func toFileReports(results []analyze.FileResult) []fileReport {
	out := make([]fileReport, len(results))
	for i, r := range results {
		out[i] = fileReport{Path: r.Path}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			continue
		}
		report := r.Report
		out[i].Report = &report
	}
	return out
}

func writeResults(w io.Writer, results []analyze.FileResult, format types.OutputFormat) error {
	switch format {
	case types.OutputJSON:
		return writeJSON(w, toFileReports(results))
	case types.OutputYAML:
		return writeYAML(w, toFileReports(results))
	default:
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", r.Path)
			if r.Err != nil {
				fmt.Fprintf(w, "error: %v\n", r.Err)
				continue
			}
			writeReportTable(w, r.Report)
		}
		return nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// writeReportTable renders a report as plain-text tables.
func writeReportTable(w io.Writer, r types.Report) {
	s := r.Summary
	fmt.Fprintf(w, "status: %s (%s)\n", s.OverallStatus, s.StatusMessage)
	fmt.Fprintf(w, "references: %d, citations: %d, format errors: %d, missing: %d, uncited: %d\n",
		r.TotalReferences, r.TotalCitations, s.TotalErrors, s.TotalMissing, s.TotalUncited)

	if len(r.FormatErrors) > 0 {
		fmt.Fprintf(w, "\nFormat errors\n")
		fmt.Fprintf(w, "%-40s  %-13s  %-20s  %s\n", "Citation", "Type", "Section", "Problem")
		fmt.Fprintln(w, strings.Repeat("-", 110))
		for _, e := range r.FormatErrors {
			fmt.Fprintf(w, "%-40s  %-13s  %-20s  %s\n",
				truncate(e.Citation, 40), e.Type, truncate(e.Section, 20), e.Error)
		}
	}

	if len(r.MissingReferences) > 0 {
		fmt.Fprintf(w, "\nCitations without a reference\n")
		fmt.Fprintf(w, "%-40s  %-13s  %-20s  %s\n", "Citation", "Type", "Section", "Suggestion")
		fmt.Fprintln(w, strings.Repeat("-", 110))
		for _, m := range r.MissingReferences {
			fmt.Fprintf(w, "%-40s  %-13s  %-20s  %s\n",
				truncate(m.Citation, 40), m.Type, truncate(m.Section, 20), m.Suggestion)
		}
	}

	var uncited []types.CitationStatus
	for _, c := range r.CitationStatus {
		if !c.Cited {
			uncited = append(uncited, c)
		}
	}
	if len(uncited) > 0 {
		fmt.Fprintf(w, "\nReferences never cited\n")
		fmt.Fprintf(w, "%-30s  %-6s  %s\n", "Authors", "Year", "Cite as")
		fmt.Fprintln(w, strings.Repeat("-", 80))
		for _, c := range uncited {
			fmt.Fprintf(w, "%-30s  %-6s  %s\n", truncate(c.AuthorsDisplay, 30), c.Year, c.Parenthetical)
		}
	}
}
