// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/citecheck/internal/analyze"
	"github.com/pdiddy/citecheck/internal/history"
	"github.com/pdiddy/citecheck/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Check citations in one or more manuscripts",
	Long: `Check analyzes each manuscript and reports APA format errors, citations
with no matching reference, and references that are never cited. Files are
analyzed concurrently; a file that cannot be read is reported and skipped.

With --fail-on the command exits non-zero when any manuscript reaches the
given tier or worse (good, needs_revision, needs_major_revision).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("format", "f", "", "output format: table, json or yaml")
	checkCmd.Flags().String("fail-on", "", "exit non-zero at this status tier or worse")
	checkCmd.Flags().Int("concurrency", 0, "documents analyzed at once (default 4)")
	checkCmd.Flags().Bool("save", false, "record results in the history database")
	viper.BindPFlag("check.format", checkCmd.Flags().Lookup("format"))
	viper.BindPFlag("check.fail_on", checkCmd.Flags().Lookup("fail-on"))
	viper.BindPFlag("check.concurrency", checkCmd.Flags().Lookup("concurrency"))

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	analyzer := analyze.New(analyze.WithLogger(logger))
	results, summary, err := analyzer.AnalyzeFiles(cmd.Context(), args, cfg.Check.Concurrency)
	if err != nil {
		return err
	}

	save, _ := cmd.Flags().GetBool("save")
	if save || cfg.History.Enabled {
		if err := recordResults(cmd, results); err != nil {
			logger.Warn("could not record history", zap.Error(err))
		}
	}

	out := cmd.OutOrStdout()
	if err := writeResults(out, results, cfg.Check.Format); err != nil {
		return err
	}
	if cfg.Check.Format == types.OutputTable || cfg.Check.Format == "" {
		fmt.Fprintf(out, "\nanalyzed: %d, failed: %d\n", summary.Analyzed, summary.Failed)
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) could not be analyzed", summary.Failed)
	}
	if n := countAtOrAbove(results, cfg.Check.FailOn); n > 0 {
		return fmt.Errorf("%d document(s) at %s or worse", n, cfg.Check.FailOn)
	}
	return nil
}

func recordResults(cmd *cobra.Command, results []analyze.FileResult) error {
	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		run := history.NewRun(r.Path, r.Report)
		if err := store.Save(cmd.Context(), &run); err != nil {
			return err
		}
		logger.Debug("recorded run", zap.String("id", run.ID), zap.String("document", r.Path))
	}
	return nil
}

// countAtOrAbove returns the number of analyzed documents whose status is
// tier or worse. An empty tier disables the check.
func countAtOrAbove(results []analyze.FileResult, tier types.OverallStatus) int {
	if tier == "" {
		return 0
	}
	n := 0
	for _, r := range results {
		if r.Err == nil && r.Report.Summary.OverallStatus.Rank() >= tier.Rank() {
			n++
		}
	}
	return n
}
