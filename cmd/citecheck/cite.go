// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citecheck/internal/crossref"
	"github.com/pdiddy/citecheck/internal/generate"
)

var citeCmd = &cobra.Command{
	Use:   "cite <input>",
	Short: "Build an APA reference from a DOI, reference, title or keywords",
	Long: `Cite detects what kind of input it was given and produces an APA
reference with its parenthetical and narrative citation keys:

  DOI        10.1037/xge0000001 or https://doi.org/...  (looked up on CrossRef)
  reference  Smith, J. (2020). Title. *Journal*.        (parsed locally)
  title      "A quoted title"                           (searched on CrossRef)
  keywords   anything else                              (searched on CrossRef)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCite,
}

var suggestDOICmd = &cobra.Command{
	Use:   "suggest-doi <prefix>",
	Short: "Suggest DOIs matching a partial DOI or query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggestDOI,
}

func init() {
	citeCmd.Flags().Bool("json", false, "output JSON")
	suggestDOICmd.Flags().Int("limit", crossref.DefaultSuggestions, "maximum suggestions")
	suggestDOICmd.Flags().Bool("json", false, "output JSON")

	rootCmd.AddCommand(citeCmd)
	rootCmd.AddCommand(suggestDOICmd)
}

func runCite(cmd *cobra.Command, args []string) error {
	gen := generate.New(crossref.New(cfg.CrossRef), logger)
	res, err := gen.Generate(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("%s mode: %w", res.Mode, err)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, res)
	}

	fmt.Fprintf(out, "mode:          %s\n", res.Mode)
	fmt.Fprintf(out, "reference:     %s\n", res.Reference)
	fmt.Fprintf(out, "parenthetical: %s\n", res.Citations.Parenthetical)
	fmt.Fprintf(out, "narrative:     %s\n", res.Citations.Narrative)
	if res.Note != "" {
		fmt.Fprintf(out, "\n%s\n", res.Note)
	}
	if len(res.Candidates) > 1 {
		fmt.Fprintln(out, "\nOther results:")
		for i, c := range res.Candidates {
			fmt.Fprintf(out, "  %d. %s (%s) %s\n", i+1, truncate(c.Title, 70), c.Year, c.DOI)
		}
	}
	return nil
}

func runSuggestDOI(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	suggestions, err := crossref.New(cfg.CrossRef).SuggestDOI(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, suggestions)
	}
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "No suggestions.")
		return nil
	}
	for _, s := range suggestions {
		fmt.Fprintf(out, "%-35s  %-4s  %-25s  %s\n", s.DOI, s.Year, truncate(s.Authors, 25), truncate(s.Title, 60))
	}
	return nil
}
