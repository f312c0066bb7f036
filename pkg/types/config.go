// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citecheck/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// OutputFormat selects how reports are rendered on the command line.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// CheckConfig holds settings for the check command.
type CheckConfig struct {
	// Format selects the report rendering: table, json, or yaml.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format" validate:"omitempty,oneof=table json yaml"`

	// FailOn makes the command exit non-zero when any document reaches
	// this tier or worse. Empty disables the check.
	FailOn OverallStatus `json:"fail_on" yaml:"fail_on" mapstructure:"fail_on" validate:"omitempty,oneof=good needs_revision needs_major_revision"`

	// Concurrency bounds the number of documents analyzed at once (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency" validate:"gte=0,lte=64"`
}

// CrossRefConfig holds settings for the CrossRef catalog client.
type CrossRefConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Mailto is sent with each request for CrossRef polite-pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty" mapstructure:"mailto" validate:"omitempty,email"`

	// MaxRetries is the number of retries on HTTP 429/503 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0,lte=10"`

	// RequestsPerSecond throttles outgoing requests (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gte=0"`
}

// HistoryConfig holds settings for the analysis history store.
type HistoryConfig struct {
	// Dir is the directory holding history.db.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Enabled records every check run when true.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// ServeConfig holds settings for the HTTP API.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr" validate:"required"`

	// MaxUploadBytes caps uploaded manuscripts (default 20 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes" validate:"gt=0"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`

	// Format is console or json.
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"omitempty,oneof=console json"`
}

// Config groups all component configurations.
type Config struct {
	Check    CheckConfig    `json:"check" yaml:"check" mapstructure:"check"`
	CrossRef CrossRefConfig `json:"crossref" yaml:"crossref" mapstructure:"crossref"`
	History  HistoryConfig  `json:"history" yaml:"history" mapstructure:"history"`
	Serve    ServeConfig    `json:"serve" yaml:"serve" mapstructure:"serve"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}
