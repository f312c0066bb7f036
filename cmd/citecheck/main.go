// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citecheck CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/citecheck/internal/logging"
	"github.com/pdiddy/citecheck/internal/secrets"
	"github.com/pdiddy/citecheck/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the validated configuration, loaded before any command runs.
	cfg types.Config

	// logger writes diagnostics to stderr.
	logger = zap.NewNop()

	// loadedSecrets holds credentials from .secrets/ and .env.
	loadedSecrets secrets.Secrets
)

var rootCmd = &cobra.Command{
	Use:   "citecheck",
	Short: "Check APA 7 in-text citations against a manuscript's reference list",
	Long: `citecheck reads a manuscript (.docx, .html, .txt or .md), finds its
in-text citations and reference list, and reports formatting problems,
citations without a matching reference, and references never cited.

It can also build APA references from a DOI, title or keywords through
CrossRef, keep a history of past checks, and serve everything over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/", ".env", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if cfg.CrossRef.Mailto == "" {
			cfg.CrossRef.Mailto = loadedSecrets.Get(secrets.CrossRefMailto, "")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citecheck.yaml or ~/.config/citecheck/citecheck.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default warn)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every configuration key so environment variables
// (CITECHECK_CHECK_FORMAT, CITECHECK_CROSSREF_MAILTO, ...) are seen by
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("check.format", string(types.OutputTable))
	v.SetDefault("check.fail_on", "")
	v.SetDefault("check.concurrency", 4)

	v.SetDefault("crossref.timeout", 15*time.Second)
	v.SetDefault("crossref.user_agent", "citecheck/"+version)
	v.SetDefault("crossref.mailto", "")
	v.SetDefault("crossref.max_retries", 3)
	v.SetDefault("crossref.requests_per_second", 5.0)

	v.SetDefault("history.dir", defaultHistoryDir())
	v.SetDefault("history.enabled", false)

	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.max_upload_bytes", 20<<20)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
}

func defaultHistoryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".citecheck"
	}
	return filepath.Join(home, ".local", "share", "citecheck")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citecheck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citecheck"))
		}
	}

	viper.SetEnvPrefix("CITECHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig unmarshals and validates the merged flag, env, file and
// default settings.
func loadConfig() (types.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.Config, error) {
	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	if err := validator.New().Struct(c); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
