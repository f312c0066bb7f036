// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citecheck/internal/history"
	"github.com/pdiddy/citecheck/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and export past checks",
	Long: `History manages the local record of past checks, kept in history.db
under the configured history directory. Checks are recorded when run with
--save or when history.enabled is set.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent checks, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full report of a past check",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every recorded check as YAML or JSON",
	RunE:  runHistoryExport,
}

func init() {
	historyCmd.PersistentFlags().String("dir", "", "history directory")
	viper.BindPFlag("history.dir", historyCmd.PersistentFlags().Lookup("dir"))

	historyListCmd.Flags().Int("limit", 20, "maximum runs to list")
	historyShowCmd.Flags().StringP("format", "f", "table", "output format: table, json or yaml")
	historyExportCmd.Flags().StringP("format", "f", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded checks.")
		return nil
	}
	fmt.Fprintf(out, "%-36s  %-20s  %-21s  %-6s  %-7s  %s\n", "ID", "Date", "Status", "Errors", "Missing", "Document")
	for _, r := range runs {
		fmt.Fprintf(out, "%-36s  %-20s  %-21s  %-6d  %-7d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Summary.OverallStatus,
			r.Summary.TotalErrors, r.Summary.TotalMissing, r.Document)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	switch types.OutputFormat(format) {
	case types.OutputJSON:
		return writeJSON(out, run)
	case types.OutputYAML:
		return writeYAML(out, run)
	default:
		fmt.Fprintf(out, "== %s (%s) ==\n", run.Document, run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		writeReportTable(out, *run.Report)
		return nil
	}
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch types.OutputFormat(format) {
	case types.OutputJSON:
		return store.ExportJSON(cmd.Context(), out)
	case types.OutputYAML:
		return store.ExportYAML(cmd.Context(), out)
	default:
		return fmt.Errorf("unsupported export format %q (use yaml or json)", format)
	}
}
