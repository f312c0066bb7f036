// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citecheck/internal/analyze"
	"github.com/pdiddy/citecheck/internal/crossref"
	"github.com/pdiddy/citecheck/internal/generate"
	"github.com/pdiddy/citecheck/internal/history"
	"github.com/pdiddy/citecheck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the checker and citation generator over HTTP",
	Long: `Serve starts the HTTP API:

  POST /api/analyze           multipart "file" upload or JSON {"text": ...}
  POST /api/generate_citation JSON {"input": ...}
  GET  /api/suggest_doi       ?prefix=...&limit=...
  GET  /metrics               Prometheus metrics

Analyses are recorded in the history database when history.enabled is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	catalog := crossref.New(cfg.CrossRef)
	opts := []server.Option{server.WithLogger(logger)}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, server.WithRecorder(store))
	}

	srv := server.New(cfg.Serve,
		analyze.New(analyze.WithLogger(logger)),
		generate.New(catalog, logger),
		catalog,
		opts...,
	)
	return srv.ListenAndServe(cmd.Context())
}
