// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citecheck/internal/bibliography"
	"github.com/pdiddy/citecheck/internal/citekey"
	"github.com/pdiddy/citecheck/internal/document"
	"github.com/pdiddy/citecheck/pkg/types"
)

var referencesCmd = &cobra.Command{
	Use:   "references <file>",
	Short: "List the parsed reference list of a manuscript",
	Long: `References locates the reference list of a manuscript and prints each
parsed entry with its authors, year and citation keys.

Use --csl to write the entries as CSL-YAML for Pandoc or a reference manager,
or --bibtex for LaTeX.`,
	Args: cobra.ExactArgs(1),
	RunE: runReferences,
}

func init() {
	referencesCmd.Flags().Bool("csl", false, "output CSL-YAML")
	referencesCmd.Flags().Bool("bibtex", false, "output BibTeX")
	referencesCmd.Flags().Bool("json", false, "output JSON")
	referencesCmd.MarkFlagsMutuallyExclusive("csl", "bibtex", "json")
	rootCmd.AddCommand(referencesCmd)
}

func runReferences(cmd *cobra.Command, args []string) error {
	text, err := document.Load(args[0])
	if err != nil {
		return fmt.Errorf("cannot open document %s: %w", args[0], err)
	}
	_, bib, found := bibliography.Split(text)
	if !found {
		logger.Warn("no reference heading found; using the last part of the document")
	}
	refs := bibliography.ParseReferences(bib)
	out := cmd.OutOrStdout()

	if asCSL, _ := cmd.Flags().GetBool("csl"); asCSL {
		return bibliography.WriteCSL(refs, out)
	}
	if asBibTeX, _ := cmd.Flags().GetBool("bibtex"); asBibTeX {
		return bibliography.WriteBibTeX(refs, out)
	}

	keyed := citekey.Keyed(refs)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if keyed == nil {
			keyed = []types.KeyedReference{}
		}
		return writeJSON(out, keyed)
	}

	if len(keyed) == 0 {
		fmt.Fprintln(out, "No references found.")
		return nil
	}
	fmt.Fprintf(out, "%-4s  %-40s  %-6s  %s\n", "#", "Authors", "Year", "Cite as")
	for _, r := range keyed {
		fmt.Fprintf(out, "%-4d  %-40s  %-6s  %s\n",
			r.ID, truncate(strings.Join(r.Authors, "; "), 40), r.Year, r.Parenthetical)
	}
	fmt.Fprintf(out, "\n%d references\n", len(keyed))
	return nil
}
